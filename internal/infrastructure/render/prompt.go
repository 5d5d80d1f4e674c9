package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dlfx/internal/domain/entity"
)

// PromptOptions параметры печати диалога.
type PromptOptions struct {
	ImageDir string // если задан, картинки сохраняются сюда в PNG
}

// PrintPrompt печатает диалог в читаемом виде: роль, текст и сведения об изображениях.
func PrintPrompt(w io.Writer, messages []entity.PromptMessage, opts PromptOptions) error {
	rule := strings.Repeat("=", 80)
	var b strings.Builder

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "CONVERSATION PROMPT")
	fmt.Fprintln(&b, rule)

	for i, msg := range messages {
		fmt.Fprintf(&b, "\n[%s]\n", strings.ToUpper(msg.Role))
		fmt.Fprintln(&b, strings.Repeat("-", 40))

		for j, content := range msg.Content {
			switch content.Type {
			case entity.ContentText:
				fmt.Fprintln(&b, content.Text)
			case entity.ContentImage:
				fmt.Fprintln(&b, "  "+describeImage(content))
				if opts.ImageDir == "" || content.Image == nil {
					continue
				}
				path := filepath.Join(opts.ImageDir, fmt.Sprintf("message%d_content%d.png", i, j))
				if err := savePNG(path, content.Image); err != nil {
					fmt.Fprintf(&b, "    ⚠️ Could not save image: %v\n", err)
					continue
				}
				fmt.Fprintf(&b, "    saved to %s\n", path)
			}
		}
	}
	fmt.Fprintln(&b, "\n"+rule)

	_, err := io.WriteString(w, b.String())
	return err
}

func describeImage(c entity.PromptContent) string {
	if c.Image == nil {
		return fmt.Sprintf("📷 Image reference: %s", c.ImagePath)
	}
	b := c.Image.Bounds()
	var mode string
	if m, ok := c.Image.(interface{ Mode() string }); ok {
		mode = m.Mode()
	} else {
		mode = fmt.Sprintf("%T", c.Image)
	}
	return fmt.Sprintf("📷 Image - Mode: %s, Size: %dx%d", mode, b.Dx(), b.Dy())
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
