package main

import (
	"io"
)

// stdinSource is the document text read from standard input. It is
// consumed once by the editor.
type stdinSource struct {
	text   string
	hidden bool
}

func readSource(r io.Reader) (*stdinSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &stdinSource{text: string(data)}, nil
}

func (s *stdinSource) Value() string { return s.text }

// Hide drops the text once the editor has taken it over.
func (s *stdinSource) Hide() {
	s.hidden = true
	s.text = ""
}
