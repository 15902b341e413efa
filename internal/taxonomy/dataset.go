package taxonomy

// Entry pairs a scientific (binomial) name with its common name.
type Entry struct {
	ScientificName string
	CommonName     string
}

// defaultDataset is the static species table loaded at startup. It skews
// toward species recorded around Islamabad and the Margalla Hills, padded
// with globally common species the classifier is likely to emit.
var defaultDataset = []Entry{
	// Mammals
	{"Felis catus", "Domestic Cat"},
	{"Canis lupus familiaris", "Domestic Dog"},
	{"Panthera leo", "Lion"},
	{"Panthera tigris", "Tiger"},
	{"Panthera pardus", "Leopard"},
	{"Acinonyx jubatus", "Cheetah"},
	{"Loxodonta africana", "African Elephant"},
	{"Giraffa camelopardalis", "Giraffe"},
	{"Equus quagga", "Zebra"},
	{"Equus ferus caballus", "Horse"},
	{"Bos taurus", "Cow"},
	{"Ovis aries", "Sheep"},
	{"Capra aegagrus hircus", "Goat"},
	{"Sus scrofa domesticus", "Domestic Pig"},
	{"Vulpes vulpes", "Red Fox"},
	{"Canis lupus", "Wolf"},
	{"Ursus arctos", "Brown Bear"},
	{"Ailuropoda melanoleuca", "Giant Panda"},
	{"Phascolarctos cinereus", "Koala"},
	{"Macropus rufus", "Red Kangaroo"},
	{"Cervus elaphus", "Red Deer"},

	// Birds
	{"Aquila chrysaetos", "Golden Eagle"},
	{"Bubo bubo", "Eurasian Eagle-Owl"},
	{"Columba livia", "Rock Pigeon"},
	{"Anas platyrhynchos", "Mallard Duck"},
	{"Anser anser", "Greylag Goose"},
	{"Cygnus olor", "Mute Swan"},
	{"Gallus gallus domesticus", "Chicken"},
	{"Meleagris gallopavo", "Wild Turkey"},

	// Reptiles & amphibians
	{"Crocodylus niloticus", "Nile Crocodile"},
	{"Python bivittatus", "Burmese Python"},
	{"Chelonia mydas", "Green Sea Turtle"},
	{"Iguana iguana", "Green Iguana"},
	{"Xenopus laevis", "African Clawed Frog"},
	{"Rana temporaria", "European Common Frog"},

	// Insects
	{"Danaus plexippus", "Monarch Butterfly"},
	{"Apis mellifera", "Western Honey Bee"},
	{"Formica rufa", "Red Wood Ant"},

	// Plants
	{"Quercus robur", "English Oak"},
	{"Pinus sylvestris", "Scots Pine"},
	{"Rosa chinensis", "China Rose"},
	{"Tulipa gesneriana", "Garden Tulip"},
	{"Bellis perennis", "Common Daisy"},
	{"Helianthus annuus", "Common Sunflower"},
	{"Orchis mascula", "Early-purple Orchid"},
	{"Phoenix dactylifera", "Date Palm"},
	{"Acer saccharum", "Sugar Maple"},
	{"Pteridium aquilinum", "Bracken Fern"},

	// Islamabad / Margalla Hills area
	{"Pinus roxburghii", "Chir Pine"},
	{"Acacia modesta", "Phulai"},
	{"Dalbergia sissoo", "Shisham"},
	{"Melia azedarach", "Chinaberry Tree"},
	{"Bauhinia variegata", "Orchid Tree"},
	{"Capra falconeri", "Markhor"},
	{"Panthera pardus saxicolor", "Persian Leopard"},
	{"Ursus thibetanus", "Asiatic Black Bear"},
	{"Vulpes bengalensis", "Bengal Fox"},
	{"Hystrix indica", "Indian Crested Porcupine"},
	{"Francolinus pondicerianus", "Grey Francolin"},
	{"Pavo cristatus", "Indian Peafowl"},
	{"Athene brama", "Spotted Owlet"},
	{"Prinia inornata", "Plain Prinia"},
	{"Upupa epops", "Hoopoe"},
}
