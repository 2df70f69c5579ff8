package postprocess

// defaultWordFrequencies is a small, frequency-ranked English word list
// used by NewDefaultFrequencyDictionary. It favors common words and
// terms typical of herbarium specimen labels (the OCR ensemble's
// original domain) over broad corpus coverage, since it exists to
// exercise AddSpaces/RemoveSpaces/SpellCorrect, not to replace a real
// spelling corpus.
var defaultWordFrequencies = map[string]int{
	"the":        23135851162,
	"of":         13151942776,
	"and":        12997637966,
	"to":         12136980858,
	"in":         8469404971,
	"a":          7894596316,
	"is":         3278137344,
	"on":         2956675725,
	"for":        2955260859,
	"county":     2000000,
	"island":     1800000,
	"station":    1200000,
	"canyon":     900000,
	"above":      1500000,
	"desert":     1100000,
	"north":      3000000,
	"south":      3000000,
	"east":       2500000,
	"west":       2500000,
	"carolina":   700000,
	"providence": 400000,
	"mountains":  1000000,
	"mts":        50000,
	"collected":  600000,
	"specimen":   300000,
	"herbarium":  150000,
	"florida":    900000,
	"california": 1200000,
	"virginia":   900000,
	"creek":      700000,
	"river":      2000000,
	"forest":     1500000,
	"national":   2800000,
	"park":       2000000,
	"trail":      400000,
	"road":       2200000,
	"near":       2000000,
	"along":      1500000,
	"elevation":  400000,
	"meters":     500000,
	"feet":       900000,
	"plant":      700000,
	"leaves":     500000,
	"flower":     400000,
	"flowers":    400000,
	"growing":    500000,
	"common":     900000,
	"rare":       400000,
}
