package placement

// Counties is the canonical list of Kenya's 47 counties. The slice order
// is the deterministic scan order for substring inference: the first name
// whose lowercase form appears in the record text wins.
var Counties = []string{
	"Baringo", "Bomet", "Bungoma", "Busia", "Elgeyo Marakwet", "Embu",
	"Garissa", "Homa Bay", "Isiolo", "Kajiado", "Kakamega", "Kericho",
	"Kiambu", "Kilifi", "Kirinyaga", "Kisii", "Kisumu", "Kitui", "Kwale",
	"Laikipia", "Lamu", "Machakos", "Makueni", "Mandera", "Marsabit",
	"Meru", "Migori", "Mombasa", "Murang'a", "Nairobi", "Nakuru", "Nandi",
	"Narok", "Nyamira", "Nyandarua", "Nyeri", "Samburu", "Siaya",
	"Taita-Taveta", "Tana River", "Tharaka-Nithi", "Trans Nzoia",
	"Turkana", "Uasin Gishu", "Vihiga", "Wajir", "West Pokot",
}

// countyAlias maps a lowercase town, neighbourhood or spelling variant to
// its county. Scanned in order after the canonical list; order is fixed so
// inference stays deterministic.
var countyAliases = []struct {
	alias  string
	county string
}{
	// spelling variants
	{"homa-bay", "Homa Bay"},
	{"homabay", "Homa Bay"},
	{"taita taveta", "Taita-Taveta"},
	{"tharaka nithi", "Tharaka-Nithi"},
	{"elgeyo", "Elgeyo Marakwet"},
	{"tharaka", "Tharaka-Nithi"},

	// towns and neighbourhoods
	{"eldoret", "Uasin Gishu"},
	{"ongata rongai", "Kajiado"},
	{"rongai", "Kajiado"},
	{"mathare", "Nairobi"},
	{"eastleigh", "Nairobi"},
	{"kawangware", "Nairobi"},
	{"gigiri", "Nairobi"},
	{"mwiki", "Nairobi"},
	{"cbd", "Nairobi"},
	{"ukwala", "Siaya"},
}
