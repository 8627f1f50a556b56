package migrator

import (
	"crypto/md5" // nolint: gosec
	"encoding/hex"
	"strings"
	"time"
)

type (
	// Script is a SQL script found on disk.
	Script struct {
		// Collection is the top-level folder the script was loaded from
		Collection string

		// Name is the path of the script relative to its collection, using
		// forward slashes. It is the merge key against the ledger.
		Name string

		// Content is the full text of the script
		Content string

		// Checksum is the uppercase hex MD5 of Content
		Checksum string
	}

	// Migration is a record in the ledger describing a script that has been
	// applied, along with the content it had at the time.
	Migration struct {
		Name      string
		Checksum  string
		AppliedAt time.Time
		Content   string
	}
)

// NewScript creates a Script and computes its checksum.
func NewScript(collection, name, content string) *Script {
	return &Script{
		Collection: collection,
		Name:       name,
		Content:    content,
		Checksum:   Checksum(content),
	}
}

// NewRecord creates the ledger record for applying the given script at
// the given time.
func NewRecord(s *Script, appliedAt time.Time) *Migration {
	return &Migration{
		Name:      s.Name,
		Checksum:  s.Checksum,
		AppliedAt: appliedAt.UTC(),
		Content:   s.Content,
	}
}

// Checksum returns the uppercase hex encoded MD5 digest of the UTF-8 content.
//
// MD5 is only used to detect edits, not for integrity against tampering. The
// format matches what is stored in existing ledgers.
func Checksum(content string) string {
	sum := md5.Sum([]byte(content)) // nolint: gosec
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
