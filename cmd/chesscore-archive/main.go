// Command chesscore-archive lists, exports and deletes games saved by the
// GUI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/go-logr/stdr"

	"github.com/hailam/chesscore/internal/storage"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: chesscore-archive [flags] <command> [args]

commands:
  list            list archived games, newest first
  show <id>       print a game as PGN
  delete <id>     remove a game

flags:
`)
	flag.PrintDefaults()
}

func main() {
	dir := flag.String("dir", "", "database directory (defaults to the per-user data directory)")
	limit := flag.Int("n", 20, "maximum number of games to list (0 for all)")
	verbosity := flag.Int("v", 0, "log verbosity")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	var (
		store *storage.Storage
		err   error
	)
	if *dir != "" {
		store, err = storage.Open(*dir, storage.WithLogger(logger))
	} else {
		store, err = storage.NewStorage(storage.WithLogger(logger))
	}
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if err := run(store, flag.Args(), *limit); err != nil {
		store.Close()
		log.Fatal(err)
	}
}

func run(store *storage.Storage, args []string, limit int) error {
	cmd := args[0]
	needID := func() (string, error) {
		if len(args) != 2 {
			return "", fmt.Errorf("%s: expected exactly one game id", cmd)
		}
		return args[1], nil
	}

	switch cmd {
	case "list":
		games, err := store.ListGames(limit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tWHITE\tBLACK\tMOVES\tRESULT")
		for _, g := range games {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
				g.ID, g.StartedAt.Format("2006-01-02 15:04"), g.White, g.Black, (len(g.Moves)+1)/2, g.Result)
		}
		return tw.Flush()
	case "show":
		id, err := needID()
		if err != nil {
			return err
		}
		rec, err := store.LoadGame(id)
		if err != nil {
			return err
		}
		pgn, err := storage.ExportPGN(rec)
		if err != nil {
			return err
		}
		fmt.Println(pgn)
		return nil
	case "delete":
		id, err := needID()
		if err != nil {
			return err
		}
		if err := store.DeleteGame(id); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", id)
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}
