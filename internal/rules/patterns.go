package rules

import "regexp"

var (
	yesPattern       = regexp.MustCompile(`(?i)\b(ja|yes|y|bestätigt|confirmed)\b`)
	noPattern        = regexp.MustCompile(`(?i)\b(nein|no|n)\b`)
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	urlPattern       = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	filenamePattern  = regexp.MustCompile(`(?i)\b[\w\-.]+\.(pdf|docx|doc|xlsx|xls|pptx|ppt|zip|png|jpg|jpeg|csv)\b`)
	refusalPattern   = regexp.MustCompile(`(?i)\b(refusal|refuse|decline|not to answer|no answer)\b`)
	letterPattern    = regexp.MustCompile(`[A-Za-zÄÖÜäöü]`)
	signaturePattern = regexp.MustCompile(`(?i)(signature|signatur|unterschrift|name\s*&\s*position|name\s*and\s*position|ort\s*/\s*datum|place\s*/\s*date)`)

	// Keywords match anywhere, dotted ids such as 4.1.9 only as whole tokens.
	referencePattern = regexp.MustCompile(`(?i)(see|refer|reference|attached|attachment|annex|section|chapter|appendix|siehe|vgl\.|verweis|anhang|beigefügt|abschnitt|kapitel|ziffer)|\b\d+(?:\.\d+)+\b`)

	questionVerbPattern    = regexp.MustCompile(`(?i)\b(beschreiben|erläutern|bestätigen|informieren|detaillieren|teilen|describe|explain|confirm|inform|detail|share)\b`)
	descriptiveVerbPattern = regexp.MustCompile(`(?i)\b(beschreiben|erläutern|detaillieren|describe|explain|detail)\b`)
)

// minPhoneDigits is the digit count that makes an answer phone-shaped.
const minPhoneDigits = 7

var questionStarters = []string{"bitte", "please", "sofern", "gab", "wurde", "hat", "ist", "nutzen", "wird"}

var noteStarters = []string{"please note", "bitte beachten", "hinweis", "note:", "the following documents"}

var sectionHeadings = map[string]struct{}{
	"prozesse":      {},
	"processes":     {},
	"dokumentation": {},
	"documentation": {},
	"outsourcing":   {},
}

var noteMarkers = []string{"please note", "bitte", "note"}

var mandatoryMarkers = []string{"obligatory", "not acceptable", "must"}

var validationMarkers = []string{"obligatory", "not acceptable", "must", "fields must only be filled", "number and text obligatory"}

var identificationLeadIns = []string{"name der", "e-mail", "telefon"}
