package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"running-events-backend/internal/dedup"
	"running-events-backend/internal/model"
)

// PromptConfirmer 逐筆在終端機詢問，空白輸入或讀到 EOF 都當作同意
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *PromptConfirmer) Confirm(ctx context.Context, group dedup.Group, candidate *model.Event) bool {
	if ctx.Err() != nil {
		return false
	}

	fmt.Fprintf(p.out, "Delete #%d %q (%s), keeping #%d %q? [Y/n] ",
		candidate.ID, candidate.Title, candidate.Slug, group.Keep.ID, group.Keep.Title)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return true
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}
