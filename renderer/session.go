package renderer

import (
	"bytes"
	"time"

	md "github.com/nao1215/markdown"
)

// SessionStatus is what the status view knows about the session.
type SessionStatus struct {
	Backend   string
	State     string
	ExpiresAt time.Time // zero when unknown
	Now       time.Time
}

// SessionMarkdown renders the session status.
func SessionMarkdown(s SessionStatus) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Session")

	rows := [][]string{
		{"Backend", s.Backend},
		{"State", md.Bold(s.State)},
	}
	if !s.ExpiresAt.IsZero() {
		rows = append(rows, []string{"Expires At", s.ExpiresAt.Local().Format(time.RFC1123)})
		left := s.ExpiresAt.Sub(s.Now).Truncate(time.Second)
		if left > 0 {
			rows = append(rows, []string{"Time Left", left.String()})
		} else {
			rows = append(rows, []string{"Time Left", "expired"})
		}
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{"", "Value"},
		Rows:      rows,
	})
	if s.ExpiresAt.IsZero() && s.State != "anonymous" {
		doc.PlainText("The token carries no expiry, the session lasts until `fv logout` or a rejected request.")
	}
	return doc.String()
}
