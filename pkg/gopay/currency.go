package gopay

import (
	"strings"
)

// Currency is a three-letter ISO currency code, or a symbol for the supported
// crypto assets. The wire form is always lowercase.
type Currency string

const (
	CurrencyBTC Currency = "btc"
	CurrencyETH Currency = "eth"
	CurrencyXMR Currency = "xmr"
	CurrencyAED Currency = "aed"
	CurrencyAFN Currency = "afn"
	CurrencyALL Currency = "all"
	CurrencyAMD Currency = "amd"
	CurrencyANG Currency = "ang"
	CurrencyAOA Currency = "aoa"
	CurrencyARS Currency = "ars"
	CurrencyAUD Currency = "aud"
	CurrencyAWG Currency = "awg"
	CurrencyAZN Currency = "azn"
	CurrencyBAM Currency = "bam"
	CurrencyBBD Currency = "bbd"
	CurrencyBDT Currency = "bdt"
	CurrencyBGN Currency = "bgn"
	CurrencyBIF Currency = "bif"
	CurrencyBMD Currency = "bmd"
	CurrencyBND Currency = "bnd"
	CurrencyBOB Currency = "bob"
	CurrencyBRL Currency = "brl"
	CurrencyBSD Currency = "bsd"
	CurrencyBWP Currency = "bwp"
	CurrencyBZD Currency = "bzd"
	CurrencyCAD Currency = "cad"
	CurrencyCDF Currency = "cdf"
	CurrencyCHF Currency = "chf"
	CurrencyCLP Currency = "clp"
	CurrencyCNY Currency = "cny"
	CurrencyCOP Currency = "cop"
	CurrencyCRC Currency = "crc"
	CurrencyCVE Currency = "cve"
	CurrencyCZK Currency = "czk"
	CurrencyDJF Currency = "djf"
	CurrencyDKK Currency = "dkk"
	CurrencyDOP Currency = "dop"
	CurrencyDZD Currency = "dzd"
	CurrencyEEK Currency = "eek"
	CurrencyEGP Currency = "egp"
	CurrencyETB Currency = "etb"
	CurrencyEUR Currency = "eur"
	CurrencyFJD Currency = "fjd"
	CurrencyFKP Currency = "fkp"
	CurrencyGBP Currency = "gbp"
	CurrencyGEL Currency = "gel"
	CurrencyGIP Currency = "gip"
	CurrencyGMD Currency = "gmd"
	CurrencyGNF Currency = "gnf"
	CurrencyGTQ Currency = "gtq"
	CurrencyGYD Currency = "gyd"
	CurrencyHKD Currency = "hkd"
	CurrencyHNL Currency = "hnl"
	CurrencyHRK Currency = "hrk"
	CurrencyHTG Currency = "htg"
	CurrencyHUF Currency = "huf"
	CurrencyIDR Currency = "idr"
	CurrencyILS Currency = "ils"
	CurrencyINR Currency = "inr"
	CurrencyISK Currency = "isk"
	CurrencyJMD Currency = "jmd"
	CurrencyJPY Currency = "jpy"
	CurrencyKES Currency = "kes"
	CurrencyKGS Currency = "kgs"
	CurrencyKHR Currency = "khr"
	CurrencyKMF Currency = "kmf"
	CurrencyKRW Currency = "krw"
	CurrencyKYD Currency = "kyd"
	CurrencyKZT Currency = "kzt"
	CurrencyLAK Currency = "lak"
	CurrencyLBP Currency = "lbp"
	CurrencyLKR Currency = "lkr"
	CurrencyLRD Currency = "lrd"
	CurrencyLSL Currency = "lsl"
	CurrencyLTL Currency = "ltl"
	CurrencyLVL Currency = "lvl"
	CurrencyMAD Currency = "mad"
	CurrencyMDL Currency = "mdl"
	CurrencyMGA Currency = "mga"
	CurrencyMKD Currency = "mkd"
	CurrencyMNT Currency = "mnt"
	CurrencyMOP Currency = "mop"
	CurrencyMRO Currency = "mro"
	CurrencyMUR Currency = "mur"
	CurrencyMVR Currency = "mvr"
	CurrencyMWK Currency = "mwk"
	CurrencyMXN Currency = "mxn"
	CurrencyMYR Currency = "myr"
	CurrencyMZN Currency = "mzn"
	CurrencyNAD Currency = "nad"
	CurrencyNGN Currency = "ngn"
	CurrencyNIO Currency = "nio"
	CurrencyNOK Currency = "nok"
	CurrencyNPR Currency = "npr"
	CurrencyNZD Currency = "nzd"
	CurrencyPAB Currency = "pab"
	CurrencyPEN Currency = "pen"
	CurrencyPGK Currency = "pgk"
	CurrencyPHP Currency = "php"
	CurrencyPKR Currency = "pkr"
	CurrencyPLN Currency = "pln"
	CurrencyPYG Currency = "pyg"
	CurrencyQAR Currency = "qar"
	CurrencyRON Currency = "ron"
	CurrencyRSD Currency = "rsd"
	CurrencyRUB Currency = "rub"
	CurrencyRWF Currency = "rwf"
	CurrencySAR Currency = "sar"
	CurrencySBD Currency = "sbd"
	CurrencySCR Currency = "scr"
	CurrencySEK Currency = "sek"
	CurrencySGD Currency = "sgd"
	CurrencySHP Currency = "shp"
	CurrencySLL Currency = "sll"
	CurrencySOS Currency = "sos"
	CurrencySRD Currency = "srd"
	CurrencySTD Currency = "std"
	CurrencySVC Currency = "svc"
	CurrencySZL Currency = "szl"
	CurrencyTHB Currency = "thb"
	CurrencyTJS Currency = "tjs"
	CurrencyTOP Currency = "top"
	CurrencyTRY Currency = "try"
	CurrencyTTD Currency = "ttd"
	CurrencyTWD Currency = "twd"
	CurrencyTZS Currency = "tzs"
	CurrencyUAH Currency = "uah"
	CurrencyUGX Currency = "ugx"
	CurrencyUSD Currency = "usd"
	CurrencyUYU Currency = "uyu"
	CurrencyUZS Currency = "uzs"
	CurrencyVEF Currency = "vef"
	CurrencyVND Currency = "vnd"
	CurrencyVUV Currency = "vuv"
	CurrencyWST Currency = "wst"
	CurrencyXAF Currency = "xaf"
	CurrencyXCD Currency = "xcd"
	CurrencyXOF Currency = "xof"
	CurrencyXPF Currency = "xpf"
	CurrencyYER Currency = "yer"
	CurrencyZAR Currency = "zar"
	CurrencyZMW Currency = "zmw"
)

var currencies = []Currency{
	CurrencyBTC, CurrencyETH, CurrencyXMR, CurrencyAED, CurrencyAFN, CurrencyALL, CurrencyAMD,
	CurrencyANG, CurrencyAOA, CurrencyARS, CurrencyAUD, CurrencyAWG, CurrencyAZN, CurrencyBAM,
	CurrencyBBD, CurrencyBDT, CurrencyBGN, CurrencyBIF, CurrencyBMD, CurrencyBND, CurrencyBOB,
	CurrencyBRL, CurrencyBSD, CurrencyBWP, CurrencyBZD, CurrencyCAD, CurrencyCDF, CurrencyCHF,
	CurrencyCLP, CurrencyCNY, CurrencyCOP, CurrencyCRC, CurrencyCVE, CurrencyCZK, CurrencyDJF,
	CurrencyDKK, CurrencyDOP, CurrencyDZD, CurrencyEEK, CurrencyEGP, CurrencyETB, CurrencyEUR,
	CurrencyFJD, CurrencyFKP, CurrencyGBP, CurrencyGEL, CurrencyGIP, CurrencyGMD, CurrencyGNF,
	CurrencyGTQ, CurrencyGYD, CurrencyHKD, CurrencyHNL, CurrencyHRK, CurrencyHTG, CurrencyHUF,
	CurrencyIDR, CurrencyILS, CurrencyINR, CurrencyISK, CurrencyJMD, CurrencyJPY, CurrencyKES,
	CurrencyKGS, CurrencyKHR, CurrencyKMF, CurrencyKRW, CurrencyKYD, CurrencyKZT, CurrencyLAK,
	CurrencyLBP, CurrencyLKR, CurrencyLRD, CurrencyLSL, CurrencyLTL, CurrencyLVL, CurrencyMAD,
	CurrencyMDL, CurrencyMGA, CurrencyMKD, CurrencyMNT, CurrencyMOP, CurrencyMRO, CurrencyMUR,
	CurrencyMVR, CurrencyMWK, CurrencyMXN, CurrencyMYR, CurrencyMZN, CurrencyNAD, CurrencyNGN,
	CurrencyNIO, CurrencyNOK, CurrencyNPR, CurrencyNZD, CurrencyPAB, CurrencyPEN, CurrencyPGK,
	CurrencyPHP, CurrencyPKR, CurrencyPLN, CurrencyPYG, CurrencyQAR, CurrencyRON, CurrencyRSD,
	CurrencyRUB, CurrencyRWF, CurrencySAR, CurrencySBD, CurrencySCR, CurrencySEK, CurrencySGD,
	CurrencySHP, CurrencySLL, CurrencySOS, CurrencySRD, CurrencySTD, CurrencySVC, CurrencySZL,
	CurrencyTHB, CurrencyTJS, CurrencyTOP, CurrencyTRY, CurrencyTTD, CurrencyTWD, CurrencyTZS,
	CurrencyUAH, CurrencyUGX, CurrencyUSD, CurrencyUYU, CurrencyUZS, CurrencyVEF, CurrencyVND,
	CurrencyVUV, CurrencyWST, CurrencyXAF, CurrencyXCD, CurrencyXOF, CurrencyXPF, CurrencyYER,
	CurrencyZAR, CurrencyZMW,
}

var currencyIndex = func() map[string]Currency {
	m := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		m[string(c)] = c
	}
	return m
}()

// Currencies returns every declared currency.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// ParseCurrency parses a currency code case-insensitively. Unknown codes
// return a *ParseCurrencyError; no fallback currency is substituted.
func ParseCurrency(s string) (Currency, error) {
	if c, ok := currencyIndex[strings.ToLower(s)]; ok {
		return c, nil
	}
	return "", &ParseCurrencyError{Input: s}
}

func (c Currency) String() string { return string(c) }

// Known reports whether c is a declared currency.
func (c Currency) Known() bool {
	_, ok := currencyIndex[string(c)]
	return ok
}

func (c Currency) MarshalText() ([]byte, error) {
	if !c.Known() {
		return nil, &ParseCurrencyError{Input: string(c)}
	}
	return []byte(c), nil
}

func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Validate rejects currencies outside the declared set before they are encoded.
func (c Currency) Validate() error {
	if !c.Known() {
		return &ParseCurrencyError{Input: string(c)}
	}
	return nil
}
