package analyzecmder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/dreamlens/pkg/dream"
)

const analyzeLongDesc string = `Ask a running dreamlens server to interpret a dream.

The dream is taken from the arguments, or from stdin when the only
argument is "-". On a terminal the analysis is rendered as markdown;
otherwise it is printed as plain text. Use --raw to print the server's
JSON response unchanged.

Examples:
  dreamlens analyze "I was flying over a city at night"
  dreamlens analyze --server http://192.168.1.42:8787 "my teeth fell out"
  echo "I missed the train" | dreamlens analyze -`

const analyzeShortDesc string = "Interpret a dream using a dreamlens server"

type analyzeCommander struct {
	serverURL string
	raw       bool
	timeout   time.Duration
}

func NewAnalyzeCmd() *cobra.Command {
	cmder := &analyzeCommander{}

	cmd := &cobra.Command{
		Use:          "analyze <dream...>",
		Short:        analyzeShortDesc,
		Long:         analyzeLongDesc,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args)
		},
	}

	cmd.Flags().StringVarP(&cmder.serverURL, "server", "s", "http://localhost:8787", "URL of the dreamlens server")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the JSON response without formatting")
	cmd.Flags().DurationVar(&cmder.timeout, "timeout", 0, "Give up after this long (0 waits indefinitely)")

	return cmd
}

func (c *analyzeCommander) run(ctx context.Context, cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out := cmd.OutOrStdout()
	tty, width := terminal(out)

	var body []byte
	if tty && !c.raw {
		body, err = waitWithSpinner(ctx, cmd.ErrOrStderr(), func(ctx context.Context) ([]byte, error) {
			return c.post(ctx, prompt)
		})
	} else {
		body, err = c.post(ctx, prompt)
	}
	if err != nil {
		return err
	}

	if c.raw {
		_, err = fmt.Fprintln(out, strings.TrimSpace(string(body)))
		return err
	}

	var resp struct {
		Analysis json.RawMessage `json:"analysis"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}

	text, ok := dream.AnalysisText(resp.Analysis)
	if !ok {
		// Unknown provider shape: show what came back.
		text = string(resp.Analysis)
	}

	if tty {
		return render(out, text, width)
	}
	_, err = fmt.Fprintln(out, strings.TrimSpace(text))
	return err
}

// post sends the dream to the server and returns the raw response body.
func (c *analyzeCommander) post(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(dream.Request{DreamPrompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	url := strings.TrimRight(c.serverURL, "/") + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

// readPrompt joins args into the dream text, reading stdin for "-".
func readPrompt(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("could not read dream from stdin: %w", err)
		}
		args = []string{string(data)}
	}

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return "", errors.New("dream text must not be empty")
	}
	return prompt, nil
}

// terminal reports whether w is an interactive terminal and its width.
func terminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok {
		return false, 0
	}

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = 80
	}
	return true, width
}
