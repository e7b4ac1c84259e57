package model

import "strings"

// iso639v3to1 maps ISO 639-3 codes to their ISO 639-1 equivalents.
var iso639v3to1 = map[string]string{
	"aar": "aa", "abk": "ab", "afr": "af", "aka": "ak", "amh": "am",
	"ara": "ar", "arg": "an", "asm": "as", "ava": "av", "ave": "ae",
	"aym": "ay", "aze": "az", "bak": "ba", "bam": "bm", "bel": "be",
	"ben": "bn", "bis": "bi", "bod": "bo", "bos": "bs", "bre": "br",
	"bul": "bg", "cat": "ca", "ces": "cs", "cha": "ch", "che": "ce",
	"chu": "cu", "chv": "cv", "cor": "kw", "cos": "co", "cre": "cr",
	"cym": "cy", "dan": "da", "deu": "de", "div": "dv", "dzo": "dz",
	"ell": "el", "eng": "en", "epo": "eo", "est": "et", "eus": "eu",
	"ewe": "ee", "fao": "fo", "fas": "fa", "fij": "fj", "fin": "fi",
	"fra": "fr", "fry": "fy", "ful": "ff", "gla": "gd", "gle": "ga",
	"glg": "gl", "glv": "gv", "grn": "gn", "guj": "gu", "hat": "ht",
	"hau": "ha", "hbs": "sh", "heb": "he", "her": "hz", "hin": "hi",
	"hmo": "ho", "hrv": "hr", "hun": "hu", "hye": "hy", "ibo": "ig",
	"ido": "io", "iii": "ii", "iku": "iu", "ile": "ie", "ina": "ia",
	"ind": "id", "ipk": "ik", "isl": "is", "ita": "it", "jav": "jv",
	"jpn": "ja", "kal": "kl", "kan": "kn", "kas": "ks", "kat": "ka",
	"kau": "kr", "kaz": "kk", "khm": "km", "kik": "ki", "kin": "rw",
	"kir": "ky", "kom": "kv", "kon": "kg", "kor": "ko", "kua": "kj",
	"kur": "ku", "lao": "lo", "lat": "la", "lav": "lv", "lim": "li",
	"lin": "ln", "lit": "lt", "ltz": "lb", "lub": "lu", "lug": "lg",
	"mah": "mh", "mal": "ml", "mar": "mr", "mkd": "mk", "mlg": "mg",
	"mlt": "mt", "mon": "mn", "mri": "mi", "msa": "ms", "mya": "my",
	"nau": "na", "nav": "nv", "nbl": "nr", "nde": "nd", "ndo": "ng",
	"nep": "ne", "nld": "nl", "nno": "nn", "nob": "nb", "nor": "no",
	"nya": "ny", "oci": "oc", "oji": "oj", "ori": "or", "orm": "om",
	"oss": "os", "pan": "pa", "pli": "pi", "pol": "pl", "por": "pt",
	"pus": "ps", "que": "qu", "roh": "rm", "ron": "ro", "run": "rn",
	"rus": "ru", "sag": "sg", "san": "sa", "sin": "si", "slk": "sk",
	"slv": "sl", "sme": "se", "smo": "sm", "sna": "sn", "snd": "sd",
	"som": "so", "sot": "st", "spa": "es", "sqi": "sq", "srd": "sc",
	"srp": "sr", "ssw": "ss", "sun": "su", "swa": "sw", "swe": "sv",
	"tah": "ty", "tam": "ta", "tat": "tt", "tel": "te", "tgk": "tg",
	"tgl": "tl", "tha": "th", "tir": "ti", "ton": "to", "tsn": "tn",
	"tso": "ts", "tuk": "tk", "tur": "tr", "twi": "tw", "uig": "ug",
	"ukr": "uk", "urd": "ur", "uzb": "uz", "ven": "ve", "vie": "vi",
	"vol": "vo", "wln": "wa", "wol": "wo", "xho": "xh", "yid": "yi",
	"yor": "yo", "zha": "za", "zho": "zh", "zul": "zu",
}

// ToISO639 normalizes a language tag. BCP-47 subtags are dropped
// ("en-US" becomes "en") and ISO 639-3 codes with a two-letter
// equivalent are shortened ("slv" becomes "sl"). Other codes are
// returned as they are.
func ToISO639(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.Index(tag, "-"); i >= 0 {
		tag = tag[:i]
	}
	if res, ok := iso639v3to1[tag]; ok {
		return res
	}
	return tag
}

// IsLanguage checks if a code looks like an ISO 639 language code:
// two or three lowercase letters.
func IsLanguage(code string) bool {
	if len(code) < 2 || len(code) > 3 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
