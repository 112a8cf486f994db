package usecase

import "strings"

// Continent identifiers accepted on StudentProfile.PreferredContinent.
const (
	NorthAmerica = "north-america"
	SouthAmerica = "south-america"
	Europe       = "europe"
	Asia         = "asia"
	Africa       = "africa"
	Oceania      = "australia"
)

// countryContinents maps lower-case country names and common aliases to a continent.
var countryContinents = map[string]string{
	// North America, Central America and the Caribbean
	"united states": NorthAmerica, "united states of america": NorthAmerica, "usa": NorthAmerica,
	"america": NorthAmerica, "canada": NorthAmerica, "mexico": NorthAmerica,
	"guatemala": NorthAmerica, "belize": NorthAmerica, "honduras": NorthAmerica, "el salvador": NorthAmerica,
	"nicaragua": NorthAmerica, "costa rica": NorthAmerica, "panama": NorthAmerica, "cuba": NorthAmerica,
	"jamaica": NorthAmerica, "haiti": NorthAmerica, "dominican republic": NorthAmerica, "bahamas": NorthAmerica,
	"barbados": NorthAmerica, "trinidad and tobago": NorthAmerica, "puerto rico": NorthAmerica,
	"grenada": NorthAmerica, "saint lucia": NorthAmerica, "dominica": NorthAmerica,
	"antigua and barbuda": NorthAmerica, "saint kitts and nevis": NorthAmerica,
	"saint vincent and the grenadines": NorthAmerica,

	// Europe
	"united kingdom": Europe, "uk": Europe, "britain": Europe, "great britain": Europe, "england": Europe,
	"scotland": Europe, "wales": Europe, "northern ireland": Europe, "germany": Europe, "france": Europe,
	"italy": Europe, "spain": Europe, "netherlands": Europe, "belgium": Europe, "switzerland": Europe,
	"austria": Europe, "sweden": Europe, "norway": Europe, "denmark": Europe, "finland": Europe,
	"poland": Europe, "czech republic": Europe, "czechia": Europe, "hungary": Europe, "portugal": Europe,
	"greece": Europe, "ireland": Europe, "romania": Europe, "bulgaria": Europe, "croatia": Europe,
	"slovenia": Europe, "slovakia": Europe, "estonia": Europe, "latvia": Europe, "lithuania": Europe,
	"luxembourg": Europe, "malta": Europe, "cyprus": Europe, "iceland": Europe, "russia": Europe,
	"russian federation": Europe, "ukraine": Europe, "belarus": Europe, "serbia": Europe,
	"bosnia and herzegovina": Europe, "montenegro": Europe, "north macedonia": Europe, "macedonia": Europe,
	"albania": Europe, "kosovo": Europe, "moldova": Europe, "liechtenstein": Europe, "monaco": Europe,
	"andorra": Europe, "san marino": Europe, "vatican city": Europe, "georgia": Europe, "armenia": Europe,
	"azerbaijan": Europe,

	// Asia and the Middle East
	"china": Asia, "china (mainland)": Asia, "japan": Asia, "south korea": Asia, "korea": Asia,
	"republic of korea": Asia, "north korea": Asia, "india": Asia, "singapore": Asia, "malaysia": Asia,
	"thailand": Asia, "vietnam": Asia, "viet nam": Asia, "philippines": Asia, "indonesia": Asia,
	"taiwan": Asia, "hong kong": Asia, "hong kong sar": Asia, "macau": Asia, "macau sar": Asia,
	"pakistan": Asia, "bangladesh": Asia, "sri lanka": Asia, "nepal": Asia, "bhutan": Asia,
	"maldives": Asia, "myanmar": Asia, "cambodia": Asia, "laos": Asia, "brunei": Asia,
	"timor-leste": Asia, "east timor": Asia, "mongolia": Asia, "kazakhstan": Asia, "uzbekistan": Asia,
	"turkmenistan": Asia, "kyrgyzstan": Asia, "tajikistan": Asia, "afghanistan": Asia, "iran": Asia,
	"iraq": Asia, "turkey": Asia, "turkiye": Asia, "syria": Asia, "lebanon": Asia, "jordan": Asia,
	"israel": Asia, "palestine": Asia, "saudi arabia": Asia, "uae": Asia, "united arab emirates": Asia,
	"qatar": Asia, "kuwait": Asia, "bahrain": Asia, "oman": Asia, "yemen": Asia,

	// Australia and Oceania
	"australia": Oceania, "new zealand": Oceania, "fiji": Oceania, "papua new guinea": Oceania,
	"samoa": Oceania, "tonga": Oceania, "vanuatu": Oceania, "solomon islands": Oceania,
	"kiribati": Oceania, "micronesia": Oceania, "marshall islands": Oceania, "palau": Oceania,
	"nauru": Oceania, "tuvalu": Oceania,

	// Africa
	"south africa": Africa, "egypt": Africa, "nigeria": Africa, "kenya": Africa, "ghana": Africa,
	"morocco": Africa, "tunisia": Africa, "algeria": Africa, "libya": Africa, "sudan": Africa,
	"south sudan": Africa, "ethiopia": Africa, "uganda": Africa, "tanzania": Africa, "zimbabwe": Africa,
	"botswana": Africa, "namibia": Africa, "zambia": Africa, "malawi": Africa, "mozambique": Africa,
	"madagascar": Africa, "mauritius": Africa, "seychelles": Africa, "rwanda": Africa, "burundi": Africa,
	"democratic republic of congo": Africa, "democratic republic of the congo": Africa, "congo": Africa,
	"cameroon": Africa, "ivory coast": Africa, "cote d'ivoire": Africa, "senegal": Africa, "mali": Africa,
	"burkina faso": Africa, "niger": Africa, "chad": Africa, "central african republic": Africa,
	"gabon": Africa, "equatorial guinea": Africa, "sao tome and principe": Africa, "cape verde": Africa,
	"cabo verde": Africa, "gambia": Africa, "guinea-bissau": Africa, "guinea": Africa,
	"sierra leone": Africa, "liberia": Africa, "togo": Africa, "benin": Africa, "angola": Africa,
	"lesotho": Africa, "swaziland": Africa, "eswatini": Africa, "comoros": Africa, "djibouti": Africa,
	"eritrea": Africa, "somalia": Africa, "mauritania": Africa,

	// South America
	"brazil": SouthAmerica, "argentina": SouthAmerica, "chile": SouthAmerica, "colombia": SouthAmerica,
	"peru": SouthAmerica, "venezuela": SouthAmerica, "ecuador": SouthAmerica, "bolivia": SouthAmerica,
	"paraguay": SouthAmerica, "uruguay": SouthAmerica, "guyana": SouthAmerica, "suriname": SouthAmerica,
	"french guiana": SouthAmerica,
}

// ContinentOf returns the continent for an exact (case-insensitive) country name.
func ContinentOf(country string) (string, bool) {
	continent, ok := countryContinents[strings.ToLower(strings.TrimSpace(country))]
	return continent, ok
}

// inContinent reports whether country belongs to continent. Countries missing from
// the table fall back to substring matching against its keys in either direction.
func inContinent(country, continent string) bool {
	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		return false
	}

	if found, ok := countryContinents[country]; ok {
		return found == continent
	}

	for key, value := range countryContinents {
		if value != continent {
			continue
		}
		if strings.Contains(country, key) || strings.Contains(key, country) {
			return true
		}
	}
	return false
}

func normalizeContinent(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Join(strings.Fields(value), "-")
}
