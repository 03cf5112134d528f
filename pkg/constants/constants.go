// Package constants provides shared constants for the cost-calculator application.
package constants

import "time"

// Production domain constants
const (
	// ModulesPerGLAB is the number of optical modules assembled into one GLAB unit
	ModulesPerGLAB = 12

	// QuartzPerBlock is the number of quartz pieces required per optical block
	QuartzPerBlock = 16

	// DaysPerMonth is the number of production days assumed per month
	DaysPerMonth = 30

	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// SetPriceUnitWon is the won value of one set-price unit (천만원)
	SetPriceUnitWon = 10_000_000

	// EokWon is the won value of one 억 (100 million), used for captions
	EokWon = 100_000_000

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Input range constants
const (
	MinProductionPeriodMonths = 1
	MaxProductionPeriodMonths = 60

	MinDepreciationPeriodYears = 1
	MaxDepreciationPeriodYears = 20

	MinTargetGLABSales = 1
	MaxTargetGLABSales = 10_000_000

	MinRequiredWorkers = 1
	MaxRequiredWorkers = 100_000

	// MinSetPrice is the smallest accepted 12-unit set price (천만원)
	MinSetPrice = 0.1
	// MaxSetPrice is the largest accepted 12-unit set price (천만원, 1조원)
	MaxSetPrice = 100_000.0

	// MaxPriceWon bounds every won-denominated input: part prices, salary and
	// setup cost (1조원)
	MaxPriceWon = 1_000_000_000_000.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides for both config files
	EnvPrefix = "COST_CALCULATOR"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRateLimitPerSecond is the default sustained request rate per client
	DefaultRateLimitPerSecond = 5.0

	// DefaultRateLimitBurst is the default request burst per client
	DefaultRateLimitBurst = 10

	// DefaultRateLimitIdleTimeout is how long a client's bucket is kept
	// after its last request
	DefaultRateLimitIdleTimeout = 10 * time.Minute
)

// Export constants
const (
	// ExportBaseName is the file name (without extension) of downloaded reports
	ExportBaseName = "광모듈_생산_비용_계산_결과"

	// DefaultScenarioName names the unmodified base plan
	DefaultScenarioName = "base"
)

// Break-even search defaults
const (
	// DefaultBreakEvenMaxSetPrice bounds the set-price search (천만원)
	DefaultBreakEvenMaxSetPrice = 1000.0

	// DefaultBreakEvenMaxSales bounds the sales-volume search (GLAB units)
	DefaultBreakEvenMaxSales = 1_000_000

	// BreakEvenPriceTolerance is the set-price precision of the search (천만원)
	BreakEvenPriceTolerance = 0.0001

	// BreakEvenMaxIterations caps every bisection
	BreakEvenMaxIterations = 100
)
