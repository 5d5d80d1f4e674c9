package render

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const stampTimeLayout = "2006-01-02 15:04:05"

// Stamp печатает markdown-блок с датой создания ноутбука, временем последнего
// изменения файла и автором.
func Stamp(w io.Writer, createdDate, author, notebookPath string) error {
	lines := []string{
		"**Notebook Session Info:**",
		"* **Created:** " + createdDate,
	}

	if info, err := statFile(notebookPath); err == nil {
		lines = append(lines, "* **Last Modified:** "+info)
	} else {
		lines = append(lines, "* **Last Modified:** (Run save to update / path not found)")
	}
	lines = append(lines, "* **Researcher:** "+author)

	_, err := fmt.Fprintf(w, "---\n\n%s\n\n---\n", strings.Join(lines, "\n"))
	return err
}

func statFile(path string) (string, error) {
	if path == "" {
		return "", os.ErrNotExist
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return info.ModTime().Format(stampTimeLayout), nil
}
