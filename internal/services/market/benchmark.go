package market

import "strings"

// Benchmark index symbols.
const (
	BenchmarkIndia = "^NSEI" // NIFTY 50
	BenchmarkUS    = "^GSPC" // S&P 500
)

// indianSuffixes are the exchange suffixes routed to the Indian benchmark.
var indianSuffixes = []string{".NS", ".BSE", ".BO", ".BE"}

// SelectBenchmark maps a ticker to its comparison index: Indian exchange
// suffixes get the NIFTY 50, everything else the S&P 500. Case-insensitive.
func SelectBenchmark(symbol string) string {
	s := strings.ToUpper(symbol)
	for _, suffix := range indianSuffixes {
		if strings.HasSuffix(s, suffix) {
			return BenchmarkIndia
		}
	}
	return BenchmarkUS
}
