// Package names canonicalizes self-reported participant labels and roster names
// so they can be compared.
//
// The Normalizer lowercases, folds diacritics, strips device annotations,
// trailing tags, possessives and punctuation, drops device words and maps
// nicknames to a canonical spelling. Both the device-word set and the alias
// table come from a Vocabulary so callers can test against controlled word
// lists and extend them from configuration.
//
// Match decides whether two normalized names refer to the same person using an
// ordered rule list: exact, substring, reordered tokens, first/last token
// compatibility and finally single-token prefixes. The rule order is part of
// the contract; later rules only run when earlier ones fail.
package names
