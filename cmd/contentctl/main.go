// Command contentctl runs maintenance tasks against the content hub database.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Olprog59/go-contenthub/internal/app"
	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/seed"
	"github.com/Olprog59/go-contenthub/internal/service"
	"github.com/Olprog59/go-contenthub/internal/ui"
)

const usage = `usage: contentctl <command> [flags]

commands:
  seed-blog         create fake blog posts
  seed-flashcards   create fake decks and cards
  delete-posts      delete every blog post
  tailwind-dummy    write the tailwind safelist file
  create-superuser  create an admin account
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// run dispatches one subcommand / Exécute une sous-commande
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}

	name, args := args[0], args[1:]
	switch name {
	case "tailwind-dummy":
		return tailwindDummy(args, out)
	case "seed-blog", "seed-flashcards", "delete-posts", "create-superuser":
		return withContainer(func(c *app.Container) error {
			switch name {
			case "seed-blog":
				return seedBlog(ctx, c, args, out)
			case "seed-flashcards":
				return seedFlashcards(ctx, c, args, out)
			case "delete-posts":
				return deletePosts(ctx, c, args, in, out)
			default:
				return createSuperuser(ctx, c, args, out)
			}
		})
	default:
		fmt.Fprintf(out, "unknown command %q\n\n%s", name, usage)
		return errUsage
	}
}

func withContainer(fn func(*app.Container) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	closeLogs := logging.Setup(cfg, os.Stderr)
	defer closeLogs()

	container, err := app.NewContainer(cfg, nil)
	if err != nil {
		return err
	}
	defer container.Close()

	return fn(container)
}

func seedBlog(ctx context.Context, c *app.Container, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("seed-blog", flag.ContinueOnError)
	fs.SetOutput(out)
	count := fs.Int("n", 10, "number of posts to create")
	seedVal := fs.Uint64("seed", 0, "random seed for reproducibility (0 = random)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	_, err := seed.New(c, *seedVal, out).BlogPosts(ctx, *count)
	return err
}

func seedFlashcards(ctx context.Context, c *app.Container, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("seed-flashcards", flag.ContinueOnError)
	fs.SetOutput(out)
	decks := fs.Int("decks", 5, "number of decks to create")
	cards := fs.Int("cards", 10, "number of cards per deck")
	seedVal := fs.Uint64("seed", 0, "random seed for reproducibility (0 = random)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return seed.New(c, *seedVal, out).Flashcards(ctx, *decks, *cards)
}

func deletePosts(ctx context.Context, c *app.Container, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("delete-posts", flag.ContinueOnError)
	fs.SetOutput(out)
	yes := fs.Bool("y", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if !*yes && !confirm(in, out, "This will delete ALL blog posts. Type 'y' to confirm: ") {
		fmt.Fprintln(out, "Operation cancelled.")
		return nil
	}

	n, err := seed.New(c, 0, out).DeleteAllPosts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Successfully deleted %d blog posts\n", n)
	return nil
}

// confirm reads one line from in and accepts only "y"
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line) == "y"
}

func tailwindDummy(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tailwind-dummy", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("o", "tailwind_dummy.html", "output file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	f, err := os.Create(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	classes, err := ui.DefaultStyles().WriteTailwindDummy(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d styles to %s\n", len(classes), *path)
	return f.Close()
}

func createSuperuser(ctx context.Context, c *app.Container, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create-superuser", flag.ContinueOnError)
	fs.SetOutput(out)
	var in service.NewUser
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Username, "username", "", "username")
	fs.StringVar(&in.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	user, err := c.UserSvc.CreateSuperuser(ctx, in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s: %s", verr.Field, verr.Message)
		}
		return err
	}
	fmt.Fprintf(out, "Superuser %s created (id %d)\n", user.Username, user.ID)
	return nil
}
