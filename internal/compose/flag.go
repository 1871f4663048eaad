package compose

import (
	"strings"

	"github.com/biter777/countries"
)

// FlagResolver turns a country code into a flag symbol, or "" when the code is unknown.
type FlagResolver interface {
	ResolveFlag(code string) string
}

// CountryFlags resolves ISO 3166-1 alpha-3 codes to regional indicator flags.
type CountryFlags struct {
	alpha2 map[string]string
}

// FlagOption configures CountryFlags.
type FlagOption func(*CountryFlags)

// WithIOCFallback also accepts IOC federation codes (GER, NED, SUI...) that are not ISO alpha-3 codes.
func WithIOCFallback() FlagOption {
	return func(f *CountryFlags) {
		for _, c := range countries.All() {
			ioc := strings.ToUpper(c.IOC())
			if len(ioc) != 3 {
				continue
			}
			if _, taken := f.alpha2[ioc]; !taken {
				f.alpha2[ioc] = c.Alpha2()
			}
		}
	}
}

// NewCountryFlags builds the alpha-3 lookup table.
func NewCountryFlags(opts ...FlagOption) *CountryFlags {
	f := &CountryFlags{alpha2: make(map[string]string)}
	for _, c := range countries.All() {
		a3 := strings.ToUpper(c.Alpha3())
		a2 := strings.ToUpper(c.Alpha2())
		if len(a3) == 3 && len(a2) == 2 {
			f.alpha2[a3] = a2
		}
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ResolveFlag implements FlagResolver.
func (f *CountryFlags) ResolveFlag(code string) string {
	a2, ok := f.alpha2[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return ""
	}
	return RegionalIndicators(a2)
}

// RegionalIndicators maps each letter A-Z to its regional indicator symbol.
// Returns "" if any rune is not an ASCII letter.
func RegionalIndicators(letters string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' {
			return ""
		}
		sb.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return sb.String()
}
