package bot

// =============================================================================
// General messages
// =============================================================================

const (
	MsgUnexpectedErr = `Unexpected error: %s`
	MsgVersionInfo   = "Version: %s\nBuilt: %s"
	MsgStartPrompt   = `
		Welcome to *EcoInventory*, %s!

		/dashboard - stock overview
		/inventory - list and search products
		/insights - AI optimization insights
		Send a product photo to add it with the AI scanner.
		/help lists every command.`
	MsgHelp = `
		*Commands*
		/dashboard - stock overview
		/inventory [search] - list products
		/add name;category;sku;quantity;minStock;price[;description]
		/update <id|sku> field=value; field=value
		/stock <id|sku> in|out <quantity>
		/delete <id|sku> (admins only)
		/insights - AI optimization insights
		/export - spreadsheet report
		/logout - sign out

		Send a product photo to add it with the AI scanner.`
	MsgAINotConfigured = "AI features are not configured."
)

// =============================================================================
// Auth messages
// =============================================================================

const (
	MsgLoginRequired = `
		Please sign in first:
		/login <email> <password>
		/signup <name>;<email>;<password>;<USER|ADMIN>`
	MsgLoginUsage         = "Usage: `/login <email> <password>`"
	MsgSignUpUsage        = "Usage: `/signup <name>;<email>;<password>;<USER|ADMIN>`"
	MsgLoginSuccess       = "Signed in as *%s* (%s)."
	MsgLoginFailed        = "Sign in failed: %s"
	MsgAlreadyLoggedIn    = "You are already signed in as *%s*. Use /logout first."
	MsgLoggedOut          = "Signed out."
	MsgAdminOnly          = "Only admins can do that."
	MsgSignUpPasswordHint = "Tip: delete the message with your password."
)

// =============================================================================
// Inventory messages
// =============================================================================

const (
	MsgNoProductsFound   = "No products found."
	MsgInventoryHeader   = "*Inventory* (%s)"
	MsgAddUsage          = "Usage: `/add name;category;sku;quantity;minStock;price[;description]`"
	MsgUpdateUsage       = "Usage: `/update <id|sku> field=value; field=value`\nFields: name, category, sku, quantity, minStock, price, description"
	MsgDeleteUsage       = "Usage: `/delete <id|sku>`"
	MsgStockUsage        = "Usage: `/stock <id|sku> in|out <quantity>`"
	MsgProductAdded      = "Added *%s* (`%s`)."
	MsgProductUpdated    = "Updated *%s*."
	MsgProductDeleted    = "Deleted *%s*."
	MsgProductNotFound   = "No product with id or SKU `%s`."
	MsgInvalidField      = "Invalid value for %s: %s"
	MsgUnknownField      = "Unknown field `%s`."
	MsgStockRecorded     = "Recorded %s %d for *%s*. Stock is now %d."
	MsgInsufficientStock = "Not enough stock: *%s* has %d left."
	MsgStockOverflow     = "That is more stock than *%s* can hold (currently %d)."
	MsgInvalidProduct    = "Could not save product: %s"
	MsgExportCaption     = "Inventory report"
)

// =============================================================================
// Dashboard messages
// =============================================================================

const (
	MsgDashboard = `
		*Dashboard*

		Total products: %d
		Low stock: %d
		Inventory value: $%s`
	MsgDashboardChartTitle = "*Stock levels*"
	MsgRecentActivityTitle = "*Recent activity*"
	MsgNoRecentActivity    = "No recent activity."
)

// =============================================================================
// AI messages
// =============================================================================

const (
	MsgInsightsTitle      = "AI Insights"
	MsgInsightsLoading    = "Analyzing your inventory..."
	MsgInsightsInProgress = "Insights are already being generated, please wait."
	MsgInsightsNoProducts = "Add some products first, there is nothing to analyze."
	MsgInsightsEmpty      = "No specific insights at this time."
	MsgInsightsFailed     = "Failed to load insights. Please check your API key."
	MsgScanStarted        = "Analyzing photo..."
	MsgScanInProgress     = "A photo is already being analyzed, please wait."
	MsgScanFailed         = "Failed to analyze image. Please add manually."
	MsgScanAdded          = `
		Added *%s* from the photo.

		Category: %s
		SKU: ` + "`%s`" + `
		Price: $%s
		%s

		Stock starts at 0, use /stock to adjust.`
)
