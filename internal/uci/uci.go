// Package uci implements the Universal Chess Interface protocol on top of
// the fixed-depth engine.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

const (
	minDepth = 1
	maxDepth = 8
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	side     board.Color
	log      logr.Logger

	out io.Writer
}

// New creates a new UCI protocol handler.
func New(eng *engine.Engine, log logr.Logger) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		side:     board.White,
		log:      log.WithName("uci"),
	}
}

// Run reads commands from r and writes responses to w until "quit", end
// of input or cancellation of ctx. Searches run to completion before the
// next command is read.
func (u *UCI) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	u.out = w
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]
		u.log.V(2).Info("command", "line", line)

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches are synchronous and fixed-depth.
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
			u.printf("Fen: %s\n", u.position.FEN(u.side))
		case "perft":
			u.handlePerft(args)
		default:
			u.printf("info string unknown command: %s\n", cmd)
		}
	}
	return scanner.Err()
}

func (u *UCI) println(a ...any) {
	fmt.Fprintln(u.out, a...)
}

func (u *UCI) printf(format string, a ...any) {
	fmt.Fprintf(u.out, format, a...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	cfg := u.engine.Config()
	u.println("id name chesscore")
	u.println("id author chesscore authors")
	u.println()
	u.printf("option name Depth type spin default %d min %d max %d\n", cfg.Depth, minDepth, maxDepth)
	u.printf("option name Algorithm type combo default %s var negamax var minimax\n", cfg.Algorithm)
	u.println("uciok")
}

// handleNewGame resets the position.
func (u *UCI) handleNewGame() {
	u.position = board.NewPosition()
	u.side = board.White
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var (
		pos  *board.Position
		side board.Color
	)
	switch args[0] {
	case "startpos":
		pos, side = board.NewPosition(), board.White
	case "fen":
		var err error
		pos, side, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.printf("info string invalid fen: %v\n", err)
			u.log.Info("invalid fen", "error", err.Error())
			return
		}
	default:
		return
	}

	// Apply moves
	if movesAt < len(args) {
		for _, mv := range args[movesAt+1:] {
			if _, err := pos.PlayUCI(side, mv); err != nil {
				u.printf("info string invalid move %s: %v\n", mv, err)
				u.log.Info("invalid move", "move", mv, "error", err.Error())
				break
			}
			side = side.Other()
		}
	}

	u.position = pos
	u.side = side
}

// GoOptions holds parsed "go" command options. Clock and node limits are
// accepted for compatibility but every search runs to a fixed depth.
type GoOptions struct {
	Depth    int
	Infinite bool
}

// handleGo runs a search and reports the best move.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)

	eng := u.engine
	eng.OnInfo = u.sendInfo
	defer func() { eng.OnInfo = nil }()

	// The search restores the position, but a copy keeps a failed search
	// from corrupting protocol state.
	res := eng.SearchDepth(u.position.Clone(), u.side, opts.Depth)
	if res.Move.IsNull() {
		u.printf("info string %s\n", strings.ToLower(res.Status.String()))
		u.println("bestmove 0000")
		return
	}
	u.printf("bestmove %s\n", res.Move)
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes":
			i++
		}
	}

	if opts.Depth > maxDepth {
		opts.Depth = maxDepth
	}
	return opts
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.UCIScore(info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if !info.Move.IsNull() {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	cfg := u.engine.Config()
	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < minDepth || depth > maxDepth {
			u.printf("info string invalid depth %q\n", value)
			return
		}
		cfg.Depth = depth
	case "algorithm":
		alg, err := engine.ParseAlgorithm(value)
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
		cfg.Algorithm = alg
	default:
		u.printf("info string unknown option %q\n", name)
		return
	}
	u.engine = u.engine.WithConfig(cfg)
	u.log.V(1).Info("option set", "name", name, "value", value)
}

// handlePerft runs a perft test and prints the per-move breakdown.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}

	start := time.Now()
	div := engine.Divide(u.position, u.side, depth)
	elapsed := time.Since(start)

	keys := make([]string, 0, len(div))
	for k := range div {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var nodes uint64
	for _, k := range keys {
		u.printf("%s: %d\n", k, div[k])
		nodes += div[k]
	}
	u.println()
	u.printf("Nodes searched: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		u.printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
