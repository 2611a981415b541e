package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/caralog/internal/logsdb"
)

// OpenEntry opens the export file in $EDITOR at the line the row was read from.
func OpenEntry(db *logsdb.DB, sourcePath string, rowID int64) error {
	src, err := db.GetSource(rowID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return fmt.Errorf("row not found: %d", rowID)
	}

	if _, err := os.Stat(sourcePath); err != nil {
		return fmt.Errorf("file not found: %s", sourcePath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	cmd := editorCommand(editor, sourcePath, src.LineNumber)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	if lineNum < 1 {
		lineNum = 1
	}
	switch {
	case strings.Contains(editor, "vim"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}
