package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bnema/tabshell/internal/app/api"
	"github.com/bnema/tabshell/internal/cli"
	"github.com/bnema/tabshell/internal/domain/entity"
)

var execFlags struct {
	index, to, offset, dir int
	url, query, menu, cmd  string
	options                string
	setActive, enable      string
	pinned, adjacent       bool
	focusLocation          bool
}

var execCmd = &cobra.Command{
	Use:   "exec <window> <command>",
	Short: "Run a tab command in a window",
	Long: `Send one command to a window over the control channel and print its
JSON result, if any.

Flags that a command does not use are ignored. --set-active and --enable
take a boolean and are left unset when omitted.

Examples:
  tabshell exec <id> create-tab --url example.com --set-active true
  tabshell exec <id> close-tab --index 2
  tabshell exec <id> reorder-tab --index 0 --to 3
  tabshell exec <id> change-active-by --offset -1
  tabshell exec <id> show-menu --menu main --options '{"x":10}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, c, err := requireClient()
		if err != nil {
			return err
		}
		req, err := buildCommandRequest(cmd, args[1])
		if err != nil {
			return err
		}
		return execCommand(a.Ctx(), c, cmd.OutOrStdout(), entity.WindowID(args[0]), req)
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	addExecFlags(execCmd)
}

func addExecFlags(c *cobra.Command) {
	f := c.Flags()
	f.IntVar(&execFlags.index, "index", 0, "tab index")
	f.IntVar(&execFlags.to, "to", 0, "destination index")
	f.IntVar(&execFlags.offset, "offset", 0, "relative offset for change-active-by")
	f.IntVar(&execFlags.dir, "dir", 0, "find direction (1 or -1)")
	f.StringVar(&execFlags.url, "url", "", "target URL")
	f.StringVar(&execFlags.query, "query", "", "in-page find query")
	f.StringVar(&execFlags.menu, "menu", "", "menu name")
	f.StringVar(&execFlags.cmd, "cmd", "", "location bar command")
	f.StringVar(&execFlags.options, "options", "", "command options as a JSON object")
	f.StringVar(&execFlags.setActive, "set-active", "", "activate the new tab (true|false)")
	f.StringVar(&execFlags.enable, "enable", "", "enable or disable (true|false)")
	f.BoolVar(&execFlags.pinned, "pinned", false, "create the tab pinned")
	f.BoolVar(&execFlags.adjacent, "adjacent", false, "open next to the active tab")
	f.BoolVar(&execFlags.focusLocation, "focus-location", false, "focus the location bar")
}

// buildCommandRequest maps the flags that were set onto a request.
func buildCommandRequest(cmd *cobra.Command, name string) (api.CommandRequest, error) {
	req := api.CommandRequest{
		Command:        name,
		Offset:         execFlags.offset,
		URL:            execFlags.url,
		Query:          execFlags.query,
		Direction:      execFlags.dir,
		Menu:           execFlags.menu,
		Cmd:            execFlags.cmd,
		Pinned:         execFlags.pinned,
		AdjacentActive: execFlags.adjacent,
		FocusLocation:  execFlags.focusLocation,
	}
	flags := cmd.Flags()
	if flags.Changed("index") {
		v := execFlags.index
		req.Index = &v
	}
	if flags.Changed("to") {
		v := execFlags.to
		req.To = &v
	}
	var err error
	if req.SetActive, err = optionalBool("set-active", execFlags.setActive); err != nil {
		return req, err
	}
	if req.Enable, err = optionalBool("enable", execFlags.enable); err != nil {
		return req, err
	}
	if execFlags.options != "" {
		if err := json.Unmarshal([]byte(execFlags.options), &req.Options); err != nil {
			return req, fmt.Errorf("invalid --options: %w", err)
		}
	}
	return req, nil
}

func optionalBool(name, raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: want true or false", name, raw)
	}
	return &v, nil
}

func execCommand(ctx context.Context, c *cli.Client, out io.Writer, win entity.WindowID, req api.CommandRequest) error {
	res, err := c.Command(ctx, win, req)
	if err != nil {
		return err
	}
	if len(res) == 0 || bytes.Equal(res, []byte("null")) {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, res, "", "  "); err != nil {
		_, err = out.Write(append(res, '\n'))
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(out)
	return err
}
