// studypress builds a Markdown textbook with interactive quizzes into a
// static site.
//
//	studypress build  [-config studypress.yml] [-lax]
//	studypress check  [-config studypress.yml]
//	studypress serve  [-config studypress.yml]
//	studypress quiz   <page.md>
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/studypress/studypress/internal/config"
	"github.com/studypress/studypress/internal/console"
	"github.com/studypress/studypress/internal/server"
	"github.com/studypress/studypress/internal/site"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "quiz":
		err = runQuiz(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("studypress: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: studypress <command> [flags]

commands:
  build   render the site into the output dir
  check   validate content without writing output
  serve   build, serve, and rebuild on change
  quiz    run one page's quizzes in the terminal`)
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "", "path to studypress.yml")
	lax := fs.Bool("lax", false, "degrade quiz errors to warnings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *lax {
		cfg.Strict = false
	}

	store, err := site.NewFSStore(cfg.OutputDir)
	if err != nil {
		return err
	}
	res, err := buildOnce(cfg, store)
	if err != nil {
		return err
	}

	log.Printf("built %d pages into %s (%d drafts skipped)", res.Pages, cfg.OutputDir, res.Skipped)
	return reportIssues(cfg, res)
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "path to studypress.yml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg.Strict = true

	res, err := buildOnce(cfg, site.DiscardStore{})
	if err != nil {
		return err
	}
	if len(res.Issues) == 0 {
		color.New(color.FgGreen).Fprintf(os.Stderr, "ok: %d pages, no quiz errors\n", res.Pages)
		return nil
	}
	return reportIssues(cfg, res)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to studypress.yml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	store, err := site.NewFSStore(cfg.OutputDir)
	if err != nil {
		return err
	}
	builder, err := site.NewBuilder(cfg, store)
	if err != nil {
		return err
	}

	// Initial build: the preview keeps serving through quiz errors, so they
	// are warnings here regardless of strictness.
	res, err := builder.Build()
	if err != nil {
		return err
	}
	for _, is := range res.Issues {
		color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %s\n", is)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, builder.Build)
	go func() {
		if err := srv.Watch(ctx); err != nil {
			log.Printf("watch: %v", err)
		}
	}()
	return srv.ListenAndServe(ctx)
}

func runQuiz(args []string) error {
	fs := flag.NewFlagSet("quiz", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("quiz takes exactly one page path")
	}
	path := fs.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return console.NewRunner(os.Stdin, os.Stdout).RunPage(path, source)
}

func buildOnce(cfg config.Config, store site.Store) (site.Result, error) {
	builder, err := site.NewBuilder(cfg, store)
	if err != nil {
		return site.Result{}, err
	}
	return builder.Build()
}

// reportIssues prints every quiz authoring error with its page and question
// index. Strict mode turns a non-empty list into a failed run.
func reportIssues(cfg config.Config, res site.Result) error {
	if len(res.Issues) == 0 {
		return nil
	}
	for _, is := range res.Issues {
		if cfg.Strict {
			color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", is)
		} else {
			color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %s\n", is)
		}
	}
	if cfg.Strict {
		return fmt.Errorf("%d quiz error(s)", len(res.Issues))
	}
	return nil
}
