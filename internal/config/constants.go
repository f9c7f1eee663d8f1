package config

// Application constants
const (
	AppName = "salesinsight"

	// EnvPrefix namespaces every environment variable, e.g. SALES_OUTPUT_DIR
	EnvPrefix = "SALES"

	DefaultDataDir      = "data"
	DefaultOutputDir    = "output"
	DefaultLogsDir      = "logs"
	DefaultLogFile      = "logs/salesreport.log"
	DefaultWorkbookName = "charts.xlsx"
	DefaultMetricsFile  = "metrics.prom"
	DefaultTraceFile    = "traces.json"

	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	DefaultIQRMultiplier = 1.5
	DefaultLowerQuantile = 0.25
	DefaultUpperQuantile = 0.75
)

// Dataset base names looked up in the data directory
const (
	SalesDataset         = "sales"
	ProductGroupDataset  = "product_group"
	WebsiteAccessDataset = "website_access"
)

// Column names referenced by the pipeline
const (
	ColSaleDate        = "SaleDate"
	ColProductDetailID = "ProductDetailID"
	ColQuantity        = "Quantity"
	ColTotalAmount     = "TotalAmount"
	ColRevenuePerUnit  = "RevenuePerUnit"
	ColProductGroupID  = "ProductGroupID"
	ColGroupName       = "GroupName"
	ColAccessType      = "AccessType"
)

// Output file names
const (
	SalesOverTimeCSV  = "sales_over_time.csv"
	RevenueByGroupCSV = "revenue_by_group.csv"
	AccessByTypeCSV   = "access_by_type.csv"
	CleanSalesCSV     = "sales_clean.csv"
	SalesWithGroupCSV = "sales_with_group.csv"
)

// Chart titles and labels
const (
	SalesOverTimeTitle  = "Total Products Sold Over Time"
	RevenueByGroupTitle = "Revenue by Product Group"
	AccessByTypeTitle   = "Website Access Distribution by User Type"

	DateAxisLabel     = "Date"
	QuantityAxisLabel = "Quantity Sold"
	GroupAxisLabel    = "Product Group"
	RevenueAxisLabel  = "Total Revenue"
)

// DateOutputLayout is the canonical SaleDate representation after loading
const DateOutputLayout = "2006-01-02T15:04:05"

// DayLayout formats calendar dates in exports
const DayLayout = "2006-01-02"

var (
	// DefaultNaNValues are the cell values treated as missing, in addition to
	// the empty string
	DefaultNaNValues = []string{"NA", "NaN", "N/A", "n/a", "null", "NULL", "<nil>"}

	// DefaultDateLayouts are tried in order when parsing SaleDate
	DefaultDateLayouts = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006/01/02 15:04:05",
		"2006/01/02",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006",
		"1/2/06 15:04",
		"1/2/06",
		"01-02-06",
		"02-Jan-2006",
		"Jan 2, 2006",
	}
)
