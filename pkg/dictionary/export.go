package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/padaserve/internal/utils"
	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/lexicon"
)

// Export writes one "word<TAB>categories<TAB>frequency" line per word in
// lexicon order.
func Export(w io.Writer, lex *lexicon.Lexicon) error {
	bw := bufio.NewWriter(w)
	var err error
	lex.Range(func(word string, e lexicon.Entry) bool {
		_, err = fmt.Fprintf(bw, "%s\t%s\t%d\n", word, strings.Join(e.Categories.Strings(), ","), e.Frequency)
		return err == nil
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// ExportWordLists writes lex as a words/ directory: one <category>.txt
// per category in the "word [frequency]" format the loader reads. A word
// with several categories is listed in each. It returns the number of
// lines written per category.
func ExportWordLists(dir string, lex *lexicon.Lexicon) (map[category.Category]int, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}

	writers := make(map[category.Category]*bufio.Writer)
	files := make(map[category.Category]*os.File)
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	counts := make(map[category.Category]int)
	var err error
	lex.Range(func(word string, e lexicon.Entry) bool {
		for _, c := range e.Categories.Slice() {
			bw, ok := writers[c]
			if !ok {
				var f *os.File
				f, err = os.Create(filepath.Join(dir, c.String()+".txt"))
				if err != nil {
					return false
				}
				files[c] = f
				bw = bufio.NewWriter(f)
				writers[c] = bw
			}
			if e.Frequency > 0 {
				_, err = fmt.Fprintf(bw, "%s %d\n", word, e.Frequency)
			} else {
				_, err = fmt.Fprintln(bw, word)
			}
			if err != nil {
				return false
			}
			counts[c]++
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	for c, bw := range writers {
		if err := bw.Flush(); err != nil {
			return nil, err
		}
		if err := files[c].Close(); err != nil {
			return nil, err
		}
		delete(files, c)
		log.Debugf("Exported %d %s words", counts[c], c)
	}
	return counts, nil
}
