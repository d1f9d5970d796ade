package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"wall-service/pkg/wallclient"
)

const help = `Commands:
  wall                      show the current page
  page <n>                  go to page n
  sort <date|date-asc|likes|comments>
  mine | others | everyone  owner filter
  tag [#hashtag]            hashtag filter, empty clears it
  like <id>
  comment <id> <text>
  share <id> [body]
  online                    connected users
  logout
  quit
`

var errQuit = errors.New("quit")

// console is the interactive wall session of the CLI
type console struct {
	app *wallclient.App
	out io.Writer

	mu       sync.Mutex
	lastSeen int64
}

func newConsole(app *wallclient.App, out io.Writer) *console {
	c := &console{app: app, out: out}
	app.Tray().OnChange(c.printNew)
	return c
}

// printNew prints notifications added since the last call
func (c *console) printNew(list []wallclient.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range list {
		if n.ID > c.lastSeen {
			c.lastSeen = n.ID
			fmt.Fprintf(c.out, "[%s] %s\n", n.Severity, n.Message)
		}
	}
}

func (c *console) Run(ctx context.Context, in io.Reader) error {
	c.printWall()
	fmt.Fprint(c.out, help)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := c.exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintln(c.out, "error:", err)
			}
		}
	}
}

func (c *console) exec(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	wall := c.app.Wall()

	switch cmd {
	case "":
		return nil
	case "help":
		fmt.Fprint(c.out, help)
		return nil
	case "quit", "exit":
		return errQuit
	case "logout":
		if err := c.app.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Logged out")
		return errQuit
	case "wall":
		if err := wall.Reload(ctx); err != nil {
			return err
		}
	case "page":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("page: %w", err)
		}
		if err := wall.SetPage(ctx, n); err != nil {
			return err
		}
	case "sort":
		if err := wall.SetSort(ctx, rest); err != nil {
			return err
		}
	case "mine", "others":
		mine := cmd == "mine"
		if err := wall.SetOwnerFilter(ctx, &mine); err != nil {
			return err
		}
	case "everyone":
		if err := wall.SetOwnerFilter(ctx, nil); err != nil {
			return err
		}
	case "tag":
		if err := wall.SetHashtagFilter(ctx, rest); err != nil {
			return err
		}
	case "like":
		if rest == "" {
			return errors.New("usage: like <id>")
		}
		return c.app.Like(ctx, rest)
	case "comment":
		id, text, _ := strings.Cut(rest, " ")
		if id == "" || strings.TrimSpace(text) == "" {
			return errors.New("usage: comment <id> <text>")
		}
		return c.app.Comment(ctx, id, strings.TrimSpace(text))
	case "share":
		id, body, _ := strings.Cut(rest, " ")
		if id == "" {
			return errors.New("usage: share <id> [body]")
		}
		return c.app.Share(ctx, id, strings.TrimSpace(body))
	case "online":
		users, err := c.app.API().ConnectedUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintf(c.out, "  %s (%d)\n", u.Username, u.ID)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}

	c.printWall()
	return nil
}

func (c *console) printWall() {
	wall := c.app.Wall()
	q := wall.Query()
	fmt.Fprintf(c.out, "-- page %d, %d messages, sorted by %s --\n", q.Page, wall.Total(), q.SortBy)
	for _, m := range wall.Messages() {
		fmt.Fprintf(c.out, "%s  %s %s  %s\n", m.ID, m.Date, m.Hour, m.Body)
		fmt.Fprintf(c.out, "    %d likes, %d comments", m.Likes, len(m.Comments))
		if m.Shared != "" {
			fmt.Fprintf(c.out, ", shared from %s", m.Shared)
		}
		fmt.Fprintln(c.out)
	}
}
