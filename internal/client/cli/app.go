package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// App is the command-line client. It talks to the key backup HTTP API using
// Basic auth and prompts for the password once, on the first command that
// needs it.
type App struct {
	baseURL string
	email   string
	client  *http.Client
	in      *bufio.Reader
	out     io.Writer

	password     string
	passwordRead bool
}

func NewApp(baseURL string, email string) *App {
	return &App{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		client:  &http.Client{Timeout: 30 * time.Second},
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

const usage = `usage: keybackup-client -s <server-url> -e <email> <command> [args]

commands:
  status                     show server status
  register                   create an account (prompts for password)
  list                       list persona ids
  put <pid> <file> [ctype]   upload a persona from a file
  get <pid>                  print persona content to stdout
  delete <pid>               delete a persona
  reset-request              request a password-reset email
  reset-confirm <code>       set a new password using a reset code
`

// Run dispatches a single command. args are the remaining command-line
// arguments after flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("no command given")
	}

	switch cmd := args[0]; cmd {
	case "status":
		return a.status(ctx)
	case "register":
		return a.register(ctx)
	case "list":
		return a.listPersonas(ctx)
	case "put":
		if len(args) < 3 {
			return fmt.Errorf("usage: put <pid> <file> [content-type]")
		}
		contentType := ""
		if len(args) > 3 {
			contentType = args[3]
		}
		return a.putPersona(ctx, args[1], args[2], contentType)
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("usage: get <pid>")
		}
		return a.getPersona(ctx, args[1])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: delete <pid>")
		}
		return a.deletePersona(ctx, args[1])
	case "reset-request":
		return a.requestReset(ctx)
	case "reset-confirm":
		if len(args) < 2 {
			return fmt.Errorf("usage: reset-confirm <code>")
		}
		return a.confirmReset(ctx, args[1])
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// requireEmail falls back to an interactive prompt when -e was not given.
func (a *App) requireEmail() error {
	if a.email != "" {
		return nil
	}
	email, err := GetSimpleText(a.in, "Account email", a.out)
	if err != nil {
		return fmt.Errorf("email is required; pass it with -e")
	}
	if email == "" {
		return fmt.Errorf("email is required; pass it with -e")
	}
	a.email = email
	return nil
}

func (a *App) getPasswordOnce(prompt string) (string, error) {
	if a.passwordRead {
		return a.password, nil
	}
	pw, err := GetPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	a.password = pw
	a.passwordRead = true
	return pw, nil
}

func (a *App) status(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/status", nil)
	if err != nil {
		return err
	}
	body, _, err := a.do(req, http.StatusOK)
	if err != nil {
		return err
	}
	_, err = a.out.Write(body)
	return err
}

func (a *App) register(ctx context.Context) error {
	if err := a.requireEmail(); err != nil {
		return err
	}
	password, err := a.getPasswordOnce("Choose a password: ")
	if err != nil {
		return err
	}

	req, err := a.jsonRequest(ctx, http.MethodPost, "/accounts", map[string]string{
		"email":    a.email,
		"password": password,
	})
	if err != nil {
		return err
	}
	if _, _, err := a.do(req, http.StatusOK); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "account created")
	return nil
}

func (a *App) listPersonas(ctx context.Context) error {
	req, err := a.authedRequest(ctx, http.MethodGet, "/personas", nil)
	if err != nil {
		return err
	}
	body, _, err := a.do(req, http.StatusOK)
	if err != nil {
		return err
	}

	var payload struct {
		Personas []string `json:"personas"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("unexpected response: %w", err)
	}
	for _, id := range payload.Personas {
		fmt.Fprintln(a.out, id)
	}
	return nil
}

func (a *App) putPersona(ctx context.Context, pid string, path string, contentType string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	req, err := a.authedRequest(ctx, http.MethodPost, "/personas/"+url.PathEscape(pid), bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	if _, _, err := a.do(req, http.StatusOK); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "uploaded", pid)
	return nil
}

func (a *App) getPersona(ctx context.Context, pid string) error {
	req, err := a.authedRequest(ctx, http.MethodGet, "/personas/"+url.PathEscape(pid), nil)
	if err != nil {
		return err
	}
	body, status, err := a.do(req, http.StatusOK, http.StatusNoContent)
	if err != nil {
		return err
	}
	if status == http.StatusNoContent {
		return nil
	}
	_, err = a.out.Write(body)
	return err
}

func (a *App) deletePersona(ctx context.Context, pid string) error {
	req, err := a.authedRequest(ctx, http.MethodDelete, "/personas/"+url.PathEscape(pid), nil)
	if err != nil {
		return err
	}
	if _, _, err := a.do(req, http.StatusOK); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted", pid)
	return nil
}

func (a *App) requestReset(ctx context.Context) error {
	if err := a.requireEmail(); err != nil {
		return err
	}
	req, err := a.jsonRequest(ctx, http.MethodPut, "/password/reset", map[string]string{"email": a.email})
	if err != nil {
		return err
	}
	if _, _, err := a.do(req, http.StatusOK); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "if the account exists, a reset email is on its way")
	return nil
}

func (a *App) confirmReset(ctx context.Context, code string) error {
	if err := a.requireEmail(); err != nil {
		return err
	}
	password, err := a.getPasswordOnce("Choose a new password: ")
	if err != nil {
		return err
	}

	req, err := a.jsonRequest(ctx, http.MethodPost, "/password/reset", map[string]string{
		"email":      a.email,
		"reset_code": code,
		"password":   password,
	})
	if err != nil {
		return err
	}
	if _, _, err := a.do(req, http.StatusOK); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "password updated")
	return nil
}

func (a *App) jsonRequest(ctx context.Context, method string, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (a *App) authedRequest(ctx context.Context, method string, path string, body io.Reader) (*http.Request, error) {
	if err := a.requireEmail(); err != nil {
		return nil, err
	}
	password, err := a.getPasswordOnce("Enter password: ")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(a.email, password)
	return req, nil
}

// do executes the request and returns the response body when the status is
// one of want. Any other status is turned into an error, using the server's
// JSON error message when one is present.
func (a *App) do(req *http.Request, want ...int) ([]byte, int, error) {
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	for _, status := range want {
		if resp.StatusCode == status {
			return body, resp.StatusCode, nil
		}
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return nil, resp.StatusCode, fmt.Errorf("server error (%d): %s", resp.StatusCode, payload.Error)
	}
	return nil, resp.StatusCode, fmt.Errorf("server error (%d)", resp.StatusCode)
}
