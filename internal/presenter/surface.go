package presenter

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// BrowserSurface writes the document to a file and opens it with the
// system browser, which shows the print dialog through the page itself.
type BrowserSurface struct {
	// Dir receives the written file. Empty means the system temp dir.
	Dir string
}

func openCommand(path string) (*exec.Cmd, error) {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		name = "xdg-open"
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("no browser launcher: %w", err)
	}
	return exec.Command(name, append(args, path)...), nil
}

func (b BrowserSurface) Open(ctx context.Context, doc *Result) error {
	dir := b.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, doc.Filename)
	data := append(doc.Data[:len(doc.Data):len(doc.Data)], []byte(autoPrintScript)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	cmd, err := openCommand(path)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	go cmd.Wait()
	return nil
}

const autoPrintScript = "<script>window.addEventListener('load', function () { window.print(); });</script>\n"
