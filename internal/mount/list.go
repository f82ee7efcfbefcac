package mount

import (
	"errors"
	"fmt"
	"strings"
)

const (
	filePrefix = "file://"

	// listReserved cannot appear in a path carried by UENV_MOUNT_LIST or
	// passed to the mount utility as src:mount.
	listReserved = ",:;"

	// entryTrailer is trimmed from the end of every list entry.
	entryTrailer = "; \t\r\n"
)

// ErrReservedChar is returned for a source or mount path that could not be
// read back from the mount list.
var ErrReservedChar = errors.New("path contains a reserved character")

// CheckEncodable fails if p would not survive EncodeList and ParseList.
func CheckEncodable(p Pair) error {
	for _, path := range []string{p.Source, p.Mount} {
		if strings.ContainsAny(path, listReserved) {
			return fmt.Errorf("%w (one of %q): %s", ErrReservedChar, listReserved, path)
		}
	}
	return nil
}

// TrimEntry strips whitespace and trailing separators from a list entry.
func TrimEntry(entry string) string {
	return strings.TrimRight(strings.TrimSpace(entry), entryTrailer)
}

// EncodeList joins pairs into the UENV_MOUNT_LIST format:
// "src:mount,src:mount".
func EncodeList(pairs []Pair) string {
	entries := make([]string, len(pairs))
	for i, p := range pairs {
		entries[i] = p.String()
	}
	return strings.Join(entries, ",")
}

// ParseList splits a UENV_MOUNT_LIST value into pairs, keeping input order.
// Each entry may carry a file:// prefix and is split on its first colon.
// Entries without a colon are returned in bad.
func ParseList(value string) (pairs []Pair, bad []string) {
	for _, entry := range strings.Split(value, ",") {
		entry = TrimEntry(entry)
		if entry == "" {
			continue
		}
		entry = strings.TrimPrefix(entry, filePrefix)

		src, mnt, ok := strings.Cut(entry, ":")
		if !ok || src == "" || mnt == "" {
			bad = append(bad, entry)
			continue
		}
		pairs = append(pairs, Pair{Source: src, Mount: mnt})
	}
	return pairs, bad
}
