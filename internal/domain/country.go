package domain

import (
	"strings"
	"unicode"
)

type countryEntry struct {
	alpha2 string
	alpha3 string
	names  []string
	mccs   []string
}

// Tabela de países: nomes em inglês, nomes locais comuns em listas de fornecedores e MCCs (ITU E.212)
var countryTable = []countryEntry{
	{"AF", "AFG", []string{"Afghanistan"}, []string{"412"}},
	{"AL", "ALB", []string{"Albania"}, []string{"276"}},
	{"DZ", "DZA", []string{"Algeria"}, []string{"603"}},
	{"AR", "ARG", []string{"Argentina"}, []string{"722"}},
	{"AM", "ARM", []string{"Armenia"}, []string{"283"}},
	{"AU", "AUS", []string{"Australia"}, []string{"505"}},
	{"AT", "AUT", []string{"Austria", "Österreich", "Osterreich"}, []string{"232"}},
	{"AZ", "AZE", []string{"Azerbaijan"}, []string{"400"}},
	{"BH", "BHR", []string{"Bahrain"}, []string{"426"}},
	{"BD", "BGD", []string{"Bangladesh"}, []string{"470"}},
	{"BY", "BLR", []string{"Belarus"}, []string{"257"}},
	{"BE", "BEL", []string{"Belgium", "Belgique", "België", "Belgie"}, []string{"206"}},
	{"BO", "BOL", []string{"Bolivia"}, []string{"736"}},
	{"BA", "BIH", []string{"Bosnia and Herzegovina", "Bosnia & Herzegovina", "Bosnia"}, []string{"218"}},
	{"BR", "BRA", []string{"Brazil", "Brasil"}, []string{"724"}},
	{"BG", "BGR", []string{"Bulgaria"}, []string{"284"}},
	{"KH", "KHM", []string{"Cambodia"}, []string{"456"}},
	{"CM", "CMR", []string{"Cameroon"}, []string{"624"}},
	{"CA", "CAN", []string{"Canada"}, []string{"302"}},
	{"CL", "CHL", []string{"Chile"}, []string{"730"}},
	{"CN", "CHN", []string{"China"}, []string{"460", "461"}},
	{"CO", "COL", []string{"Colombia"}, []string{"732"}},
	{"CR", "CRI", []string{"Costa Rica"}, []string{"712"}},
	{"HR", "HRV", []string{"Croatia", "Hrvatska"}, []string{"219"}},
	{"CY", "CYP", []string{"Cyprus"}, []string{"280"}},
	{"CZ", "CZE", []string{"Czech Republic", "Czechia"}, []string{"230"}},
	{"DK", "DNK", []string{"Denmark", "Danmark"}, []string{"238"}},
	{"DO", "DOM", []string{"Dominican Republic"}, []string{"370"}},
	{"EC", "ECU", []string{"Ecuador"}, []string{"740"}},
	{"EG", "EGY", []string{"Egypt"}, []string{"602"}},
	{"SV", "SLV", []string{"El Salvador"}, []string{"706"}},
	{"EE", "EST", []string{"Estonia", "Eesti"}, []string{"248"}},
	{"ET", "ETH", []string{"Ethiopia"}, []string{"636"}},
	{"FI", "FIN", []string{"Finland", "Suomi"}, []string{"244"}},
	{"FR", "FRA", []string{"France"}, []string{"208"}},
	{"GE", "GEO", []string{"Georgia"}, []string{"282"}},
	{"DE", "DEU", []string{"Germany", "Deutschland", "Tyskland"}, []string{"262"}},
	{"GH", "GHA", []string{"Ghana"}, []string{"620"}},
	{"GR", "GRC", []string{"Greece", "Hellas"}, []string{"202"}},
	{"GT", "GTM", []string{"Guatemala"}, []string{"704"}},
	{"HN", "HND", []string{"Honduras"}, []string{"708"}},
	{"HK", "HKG", []string{"Hong Kong"}, []string{"454"}},
	{"HU", "HUN", []string{"Hungary", "Magyarország", "Magyarorszag"}, []string{"216"}},
	{"IS", "ISL", []string{"Iceland", "Ísland"}, []string{"274"}},
	{"IN", "IND", []string{"India"}, []string{"404", "405", "406"}},
	{"ID", "IDN", []string{"Indonesia"}, []string{"510"}},
	{"IR", "IRN", []string{"Iran", "Islamic Republic of Iran"}, []string{"432"}},
	{"IQ", "IRQ", []string{"Iraq"}, []string{"418"}},
	{"IE", "IRL", []string{"Ireland", "Éire"}, []string{"272"}},
	{"IL", "ISR", []string{"Israel"}, []string{"425"}},
	{"IT", "ITA", []string{"Italy", "Italia"}, []string{"222"}},
	{"CI", "CIV", []string{"Ivory Coast", "Côte d'Ivoire", "Cote d'Ivoire", "Cote dIvoire"}, []string{"612"}},
	{"JM", "JAM", []string{"Jamaica"}, []string{"338"}},
	{"JP", "JPN", []string{"Japan"}, []string{"440", "441"}},
	{"JO", "JOR", []string{"Jordan"}, []string{"416"}},
	{"KZ", "KAZ", []string{"Kazakhstan"}, []string{"401"}},
	{"KE", "KEN", []string{"Kenya"}, []string{"639"}},
	{"KW", "KWT", []string{"Kuwait"}, []string{"419"}},
	{"KG", "KGZ", []string{"Kyrgyzstan"}, []string{"437"}},
	{"LV", "LVA", []string{"Latvia", "Latvija"}, []string{"247"}},
	{"LB", "LBN", []string{"Lebanon"}, []string{"415"}},
	{"LT", "LTU", []string{"Lithuania", "Lietuva"}, []string{"246"}},
	{"LU", "LUX", []string{"Luxembourg"}, []string{"270"}},
	{"MO", "MAC", []string{"Macau", "Macao"}, []string{"455"}},
	{"MY", "MYS", []string{"Malaysia"}, []string{"502"}},
	{"MT", "MLT", []string{"Malta"}, []string{"278"}},
	{"MX", "MEX", []string{"Mexico", "México"}, []string{"334"}},
	{"MD", "MDA", []string{"Moldova", "Republic of Moldova"}, []string{"259"}},
	{"MA", "MAR", []string{"Morocco", "Maroc"}, []string{"604"}},
	{"MM", "MMR", []string{"Myanmar", "Burma"}, []string{"414"}},
	{"NP", "NPL", []string{"Nepal"}, []string{"429"}},
	{"NL", "NLD", []string{"Netherlands", "The Netherlands", "Nederland", "Holland"}, []string{"204"}},
	{"NZ", "NZL", []string{"New Zealand"}, []string{"530"}},
	{"NI", "NIC", []string{"Nicaragua"}, []string{"710"}},
	{"NG", "NGA", []string{"Nigeria"}, []string{"621"}},
	{"MK", "MKD", []string{"North Macedonia", "Macedonia"}, []string{"294"}},
	{"NO", "NOR", []string{"Norway", "Norge"}, []string{"242"}},
	{"OM", "OMN", []string{"Oman"}, []string{"422"}},
	{"PK", "PAK", []string{"Pakistan"}, []string{"410"}},
	{"PA", "PAN", []string{"Panama"}, []string{"714"}},
	{"PY", "PRY", []string{"Paraguay"}, []string{"744"}},
	{"PE", "PER", []string{"Peru"}, []string{"716"}},
	{"PH", "PHL", []string{"Philippines"}, []string{"515"}},
	{"PL", "POL", []string{"Poland", "Polska"}, []string{"260"}},
	{"PT", "PRT", []string{"Portugal"}, []string{"268"}},
	{"QA", "QAT", []string{"Qatar"}, []string{"427"}},
	{"RO", "ROU", []string{"Romania", "România"}, []string{"226"}},
	{"RU", "RUS", []string{"Russia", "Russian Federation"}, []string{"250"}},
	{"SA", "SAU", []string{"Saudi Arabia", "KSA"}, []string{"420"}},
	{"SN", "SEN", []string{"Senegal"}, []string{"608"}},
	{"RS", "SRB", []string{"Serbia", "Srbija"}, []string{"220"}},
	{"SG", "SGP", []string{"Singapore"}, []string{"525"}},
	{"SK", "SVK", []string{"Slovakia", "Slovensko"}, []string{"231"}},
	{"SI", "SVN", []string{"Slovenia", "Slovenija"}, []string{"293"}},
	{"ZA", "ZAF", []string{"South Africa"}, []string{"655"}},
	{"KR", "KOR", []string{"South Korea", "Korea", "Republic of Korea", "Korea, Republic of"}, []string{"450"}},
	{"ES", "ESP", []string{"Spain", "España", "Espana", "Spanien"}, []string{"214"}},
	{"LK", "LKA", []string{"Sri Lanka"}, []string{"413"}},
	{"SE", "SWE", []string{"Sweden", "Sverige"}, []string{"240"}},
	{"CH", "CHE", []string{"Switzerland", "Schweiz", "Suisse"}, []string{"228"}},
	{"TW", "TWN", []string{"Taiwan"}, []string{"466"}},
	{"TZ", "TZA", []string{"Tanzania"}, []string{"640"}},
	{"TH", "THA", []string{"Thailand"}, []string{"520"}},
	{"TN", "TUN", []string{"Tunisia"}, []string{"605"}},
	{"TR", "TUR", []string{"Turkey", "Türkiye", "Turkiye"}, []string{"286"}},
	{"UG", "UGA", []string{"Uganda"}, []string{"641"}},
	{"UA", "UKR", []string{"Ukraine"}, []string{"255"}},
	{"AE", "ARE", []string{"United Arab Emirates", "UAE", "Emirates"}, []string{"424", "430", "431"}},
	{"GB", "GBR", []string{"United Kingdom", "UK", "Great Britain", "Britain", "England"}, []string{"234", "235"}},
	{"US", "USA", []string{"United States", "United States of America", "US", "America"}, []string{"310", "311", "312", "313", "314", "315", "316"}},
	{"UY", "URY", []string{"Uruguay"}, []string{"748"}},
	{"UZ", "UZB", []string{"Uzbekistan"}, []string{"434"}},
	{"VE", "VEN", []string{"Venezuela"}, []string{"734"}},
	{"VN", "VNM", []string{"Vietnam", "Viet Nam"}, []string{"452"}},
	{"ZM", "ZMB", []string{"Zambia"}, []string{"645"}},
	{"ZW", "ZWE", []string{"Zimbabwe"}, []string{"648"}},
}

var (
	countryAliases = buildCountryAliases()
	countryByMCC   = buildCountryByMCC()
)

func buildCountryAliases() map[string]string {
	aliases := make(map[string]string, len(countryTable)*4)
	for _, c := range countryTable {
		aliases[countryAliasKey(c.alpha2)] = c.alpha2
		aliases[countryAliasKey(c.alpha3)] = c.alpha2
		for _, name := range c.names {
			aliases[countryAliasKey(name)] = c.alpha2
		}
	}
	return aliases
}

func buildCountryByMCC() map[string]string {
	byMCC := make(map[string]string)
	for _, c := range countryTable {
		for _, mcc := range c.mccs {
			byMCC[mcc] = c.alpha2
		}
	}
	return byMCC
}

// countryAliasKey normaliza um nome de país para busca: minúsculas, sem pontuação, espaços colapsados
func countryAliasKey(name string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case r == '&':
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("and")
			space = true
		case unicode.IsSpace(r) || r == '-' || r == '/' || r == '_':
			space = true
		}
	}
	return b.String()
}

// CanonicalCountry resolve um nome, alpha-2 ou alpha-3 para o código ISO 3166-1 alpha-2
func CanonicalCountry(name string) (string, bool) {
	code, ok := countryAliases[countryAliasKey(name)]
	return code, ok
}

// CountryByMCC resolve o país a partir do MCC
func CountryByMCC(mcc string) (string, bool) {
	code, ok := countryByMCC[strings.TrimSpace(mcc)]
	return code, ok
}
