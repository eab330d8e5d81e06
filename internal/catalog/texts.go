package catalog

import "github.com/sjc-hospitality/hestia-bot/internal/language"

const (
	en = language.English
	bs = language.Bisaya
	tl = language.Tagalog
)

var topicTexts = map[Topic]Texts{
	TopicPrograms: {
		en: "We offer two programs:\n\nBSTM - Bachelor of Science in Tourism Management\nFocuses on airlines, travel agencies, tour guiding, events, and destinations.\n\nBSHM - Bachelor of Science in Hospitality Management\nFocuses on hotels, restaurants, cooking, events, and customer service.",
		bs: "Adunay duha ka programa:\n\nBSTM - Bachelor of Science in Tourism Management\nNakafocus sa airlines, travel agencies, tour guiding, events, ug destinations.\n\nBSHM - Bachelor of Science in Hospitality Management\nNakafocus sa hotels, restaurants, cooking, events, ug customer service.",
		tl: "May dalawang programa:\n\nBSTM - Bachelor of Science in Tourism Management\nNakatuon sa airlines, travel agencies, tour guiding, events, at destinations.\n\nBSHM - Bachelor of Science in Hospitality Management\nNakatuon sa hotels, restaurants, cooking, events, at customer service.",
	},
	TopicPartnerships: {
		en: "We have partnerships with Air Asia and many industry leaders:\n\nBayfront Cebu, Bohol Bee Farm, Discovery Prime Makati, Department of Tourism Manila, Ecoscape Travel & Tours, Fuente Pension House, Fuente Hotel de Cebu, Hotel Celeste Makati, Jeju Air, Nustar Resort and Casino, Tambuli Seaside Resort and Spa, The Mark Resort Cebu, Waterfront Mactan/Lahug, and more.",
		bs: "Adunay partnerships sa Air Asia ug daghan pang industry leaders:\n\nBayfront Cebu, Bohol Bee Farm, Discovery Prime Makati, Department of Tourism Manila, Ecoscape Travel & Tours, Fuente Pension House, Fuente Hotel de Cebu, Hotel Celeste Makati, Jeju Air, Nustar Resort and Casino, Tambuli Seaside Resort and Spa, The Mark Resort Cebu, Waterfront Mactan/Lahug, ug uban pa.",
		tl: "May partnerships sa Air Asia at marami pang industry leaders:\n\nBayfront Cebu, Bohol Bee Farm, Discovery Prime Makati, Department of Tourism Manila, Ecoscape Travel & Tours, Fuente Pension House, Fuente Hotel de Cebu, Hotel Celeste Makati, Jeju Air, Nustar Resort and Casino, Tambuli Seaside Resort and Spa, The Mark Resort Cebu, Waterfront Mactan/Lahug, at iba pa.",
	},
	TopicEvents: {
		en: "The department organizes multi-day events featuring competitions like bartending, market basket, tray relay, housekeeping, airline voice over, tour guiding/vlogging, and hair & makeup.",
		bs: "Ang department nag-organize og multi-day event nga adunay competitions sama sa bartending, market basket, tray relay, housekeeping, airline voice over, tour guiding/vlogging, ug hair & makeup.",
		tl: "Ang department ay nag-organize ng multi-day event na may competitions tulad ng bartending, market basket, tray relay, housekeeping, airline voice over, tour guiding/vlogging, at hair & makeup.",
	},
	TopicTraining: {
		en: "Labs and simulations in both programs, plus internships via industry partners to give you real-world experience in professional environments.",
		bs: "Labs ug simulations sa duha ka programa, plus internships pinaagi sa industry partners aron makakuha mo og real-world experience sa professional environments.",
		tl: "Labs at simulations sa dalawang programa, plus internships sa pamamagitan ng industry partners upang makakuha kayo ng real-world experience sa professional environments.",
	},
	TopicCosts: {
		en: "Additional expenses for Lab Uniform, culinary ingredients, Event participation fees (MICE), and OJT requirements.",
		bs: "Additional expenses para sa Lab Uniform, culinary ingredients, Event participation fees (MICE), ug OJT requirements.",
		tl: "Karagdagang gastos para sa Lab Uniform, culinary ingredients, Event participation fees (MICE), at OJT requirements.",
	},
	TopicAcademic: {
		en: "Expect a lot of memorization (maps and cultures), hands-on use of systems like Amadeus and Property Management Systems, and event planning (MICE).",
		bs: "Daghan og memorization (maps ug cultures), paggamit sa systems sama sa Amadeus ug Property Management System, ug event planning (MICE).",
		tl: "Maraming memorization (maps at cultures), paggamit ng systems tulad ng Amadeus at Property Management System, at event planning (MICE).",
	},
	TopicCareers: {
		en: "BSTM graduates can become:\nTravel or tour agents, flight attendants, tourism officers, event organizers\n\nBSHM graduates can become:\nHotel or resort managers, chefs or kitchen supervisors, front desk managers, F&B supervisors",
		bs: "BSTM graduates makahimong:\nTravel o tour agents, flight attendants, tourism officers, event organizers\n\nBSHM graduates makahimong:\nHotel o resort managers, chefs o kitchen supervisors, front desk managers, F&B supervisors",
		tl: "BSTM graduates ay maaaring maging:\nTravel o tour agents, flight attendants, tourism officers, event organizers\n\nBSHM graduates ay maaaring maging:\nHotel o resort managers, chefs o kitchen supervisors, front desk managers, F&B supervisors",
	},
	TopicThesis: {
		en: "Yes, a thesis is required. It is usually done in the 3rd or 4th year as part of the degree requirements.",
		bs: "Oo, adunay thesis. Kasagaran kini buhaton sa ikatulo o ikaupat nga tuig isip parte sa degree requirements.",
		tl: "Oo, may thesis. Karaniwan itong ginagawa sa ikatlo o ikaapat na taon bilang bahagi ng degree requirements.",
	},
	TopicInstructors: {
		en: "Dean: Rosalinda C. Jomoc, DDM-ET\n\nFull-time instructors:\nXaviera Colleen De Paz, Jazfer Jadd Sala, Angeline Manliguez, Euzarn Cuaton, Wayne Clerigo, Perlita Gerona, Eva Palero, Rachel Mamado, Trisha Louraine De La Torre\n\nPart-time instructors:\nJovanni Christian Plateros, Ruby De la Torre, Paz Belen Mariño, Rafael Bachanicha, Fr. Allan Igbalic, Fr. Emerson Nazareth, Fr. Mark Ortega",
	},
	TopicLocation: {
		en: "We're located at Saint Joseph College\nTunga-Tunga, Maasin City, Southern Leyte",
		bs: "Naa mi sa Saint Joseph College\nTunga-Tunga, Maasin City, Southern Leyte",
		tl: "Nandito kami sa Saint Joseph College\nTunga-Tunga, Maasin City, Southern Leyte",
	},
}

var quickReplyMenus = map[language.Tag][]QuickReply{
	en: {
		{"Programs", TopicPrograms},
		{"Partnerships", TopicPartnerships},
		{"Events", TopicEvents},
		{"Training", TopicTraining},
		{"Costs", TopicCosts},
		{"Academic Content", TopicAcademic},
		{"Careers", TopicCareers},
		{"Thesis", TopicThesis},
		{"Instructors", TopicInstructors},
		{"Location", TopicLocation},
	},
	bs: {
		{"Mga Programa", TopicPrograms},
		{"Partnerships", TopicPartnerships},
		{"Mga Event", TopicEvents},
		{"Training", TopicTraining},
		{"Mga Gasto", TopicCosts},
		{"Academic", TopicAcademic},
		{"Trabaho", TopicCareers},
		{"Thesis", TopicThesis},
		{"Instructors", TopicInstructors},
		{"Lokasyon", TopicLocation},
	},
	tl: {
		{"Mga Programa", TopicPrograms},
		{"Partnerships", TopicPartnerships},
		{"Mga Event", TopicEvents},
		{"Training", TopicTraining},
		{"Mga Gastos", TopicCosts},
		{"Academic", TopicAcademic},
		{"Trabaho", TopicCareers},
		{"Thesis", TopicThesis},
		{"Instructors", TopicInstructors},
		{"Lokasyon", TopicLocation},
	},
}

// keywordRules is evaluated top to bottom and the first match wins.
// The order is observable behavior: "tuition for the BSTM course" answers
// with programs, not costs.
var keywordRules = []struct {
	topic   Topic
	pattern string
}{
	{TopicPrograms, `\b(programs?|programa|courses?|kurso|bstm|bshm|degrees?|offer(s|ed)?)\b`},
	{TopicCosts, `\b(costs?|fees?|tuition|prices?|magkano|pila|gastos?|bayad|bayran|presyo|expenses?|uniform)\b`},
	{TopicLocation, `\b(location|located|where|address|asa|saan|nasaan|lokasyon|maasin|campus|directions?)\b`},
	{TopicInstructors, `\b(instructors?|teachers?|faculty|dean|professors?|maestr[ao]|magtutudlo|guro)\b`},
	{TopicThesis, `\b(thesis|tesis|research|capstone)\b`},
	{TopicCareers, `\b(careers?|jobs?|work|trabaho|graduates?|employment|hanapbuhay)\b`},
	{TopicPartnerships, `\b(partners?|partnerships?|industry|linkages?|affiliat\w*)\b`},
	{TopicEvents, `\b(events?|competitions?|contests?|mice|kalihokan)\b`},
	{TopicTraining, `\b(training|internships?|ojt|practicum|labs?|simulations?|hands-on)\b`},
	{TopicAcademic, `\b(academics?|subjects?|curriculum|memoriz\w*|amadeus|lessons?|stud(y|ies))\b`},
}

var welcomeTexts = Texts{
	en: "Hello! I'm Hestia, your Tourism & Hospitality Department assistant at Saint Joseph College.\n\nHow can I help you today?",
	bs: "Kumusta! Ako si Hestia, ang inyong Tourism & Hospitality Department assistant sa Saint Joseph College.\n\nUnsa ang akong matabang ninyo karon?",
	tl: "Kumusta! Ako si Hestia, ang inyong Tourism & Hospitality Department assistant sa Saint Joseph College.\n\nPaano ko kayo matutulungan ngayon?",
}

var fallbackTexts = Texts{
	en: "Thank you for your question! I'm here to help you learn more about our Tourism & Hospitality programs at Saint Joseph College.\n\nPlease use the quick reply buttons below to explore specific topics.",
	bs: "Salamat sa inyong pangutana! Naa ko dinhi aron matabangan mo sa pagkat-on bahin sa among Tourism & Hospitality programs sa Saint Joseph College.\n\nPalihug gamita ang mga quick reply buttons sa ubos para sa specific topics.",
	tl: "Salamat sa inyong tanong! Nandito ako upang matulungan kayo sa pag-aaral tungkol sa aming Tourism & Hospitality programs sa Saint Joseph College.\n\nPakiusap gamitin ang mga quick reply buttons sa ibaba para sa specific topics.",
}

var notUnderstoodTexts = Texts{
	en: "Sorry, I didn't understand that option. Please choose one of the topics below.",
	bs: "Pasensya, wala nako masabti ang imong gipili. Palihug pili sa mga topic sa ubos.",
	tl: "Paumanhin, hindi ko naintindihan ang napili mo. Pakipili ang isa sa mga topic sa ibaba.",
}

var apologyTexts = Texts{
	en: "Sorry, something went wrong while answering your message. Please try again in a moment.",
	bs: "Pasensya, naay problema sa pagtubag sa imong mensahe. Palihug sulayi usab unya.",
	tl: "Paumanhin, nagkaproblema sa pagsagot sa iyong mensahe. Pakisubukan muli mamaya.",
}

var slowDownTexts = Texts{
	en: "You're sending messages faster than I can answer. Please wait a moment, then ask again.",
	bs: "Paspas kaayo ang imong mga mensahe. Palihug hulat gamay, unya pangutana usab.",
	tl: "Masyadong mabilis ang iyong mga mensahe. Pakihintay sandali, saka magtanong muli.",
}
