package names

import (
	"sort"
	"strings"
)

// Vocabulary holds the word lists the Normalizer applies after tokenizing.
type Vocabulary struct {
	// DeviceWords are tokens removed outright ("iphone", "laptop").
	DeviceWords []string
	// Aliases maps a nickname or variant spelling to its canonical token.
	Aliases map[string]string
}

var defaultDeviceWords = []string{
	"iphone", "ipad", "android", "samsung", "pixel", "galaxy",
	"phone", "tablet", "device", "mobile", "macbook", "laptop",
}

var defaultAliases = map[string]string{
	// Arabic and South Asian transliterations.
	"mohammed": "muhammad",
	"mohamed":  "muhammad",
	"mohammad": "muhammad",
	"mohamad":  "muhammad",
	"muhammed": "muhammad",
	"muhamad":  "muhammad",
	"mohd":     "muhammad",
	"mhd":      "muhammad",
	"ahmad":    "ahmed",
	"ahmet":    "ahmed",
	"yousef":   "yusuf",
	"youssef":  "yusuf",
	"yousuf":   "yusuf",
	"yusef":    "yusuf",
	"abdallah": "abdullah",
	"hussain":  "hussein",
	"husain":   "hussein",
	"hussian":  "hussein",
	"fatimah":  "fatima",
	"aisha":    "ayesha",
	"aysha":    "ayesha",

	// English nicknames.
	"mike":    "michael",
	"mikey":   "michael",
	"bob":     "robert",
	"bobby":   "robert",
	"rob":     "robert",
	"robbie":  "robert",
	"bill":    "william",
	"billy":   "william",
	"will":    "william",
	"jim":     "james",
	"jimmy":   "james",
	"joe":     "joseph",
	"joey":    "joseph",
	"dan":     "daniel",
	"danny":   "daniel",
	"dave":    "david",
	"chris":   "christopher",
	"tom":     "thomas",
	"tommy":   "thomas",
	"nick":    "nicholas",
	"matt":    "matthew",
	"alex":    "alexander",
	"sam":     "samuel",
	"ben":     "benjamin",
	"tony":    "anthony",
	"steve":   "steven",
	"stephen": "steven",
	"jon":     "jonathan",
	"liz":     "elizabeth",
	"beth":    "elizabeth",
	"kate":    "katherine",
	"katie":   "katherine",
	"jen":     "jennifer",
	"jenny":   "jennifer",
	"sue":     "susan",
	"pat":     "patrick",
	"rick":    "richard",
	"ricky":   "richard",
	"eddie":   "edward",
	"andy":    "andrew",
	"greg":    "gregory",
	"jeff":    "jeffrey",
	"josh":    "joshua",
	"zach":    "zachary",
}

// DefaultVocabulary returns a fresh copy of the built-in device words and aliases.
func DefaultVocabulary() Vocabulary {
	words := make([]string, len(defaultDeviceWords))
	copy(words, defaultDeviceWords)
	aliases := make(map[string]string, len(defaultAliases))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	return Vocabulary{DeviceWords: words, Aliases: aliases}
}

// Merge returns a vocabulary containing the receiver's entries overlaid with
// other's. Aliases in other win on conflict.
func (v Vocabulary) Merge(other Vocabulary) Vocabulary {
	seen := make(map[string]struct{}, len(v.DeviceWords)+len(other.DeviceWords))
	words := make([]string, 0, len(v.DeviceWords)+len(other.DeviceWords))
	for _, list := range [][]string{v.DeviceWords, other.DeviceWords} {
		for _, word := range list {
			word = strings.ToLower(strings.TrimSpace(word))
			if word == "" {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
	}
	aliases := make(map[string]string, len(v.Aliases)+len(other.Aliases))
	for k, val := range v.Aliases {
		aliases[k] = val
	}
	for k, val := range other.Aliases {
		aliases[k] = val
	}
	return Vocabulary{DeviceWords: words, Aliases: aliases}
}

// SortedDeviceWords returns the device words in lexical order, for display.
func (v Vocabulary) SortedDeviceWords() []string {
	out := make([]string, len(v.DeviceWords))
	copy(out, v.DeviceWords)
	sort.Strings(out)
	return out
}
