package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/danielhkuo/kumpul/auth"
	"github.com/danielhkuo/kumpul/models"
	"github.com/danielhkuo/kumpul/pollclient"
	"github.com/danielhkuo/kumpul/polls"
	"github.com/dustin/go-humanize"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "tally":
		doTally(os.Args[2:])
	case "my-vote":
		doMyVote(os.Args[2:])
	case "vote":
		doVote(os.Args[2:])
	case "cancel":
		doCancel(os.Args[2:])
	case "watch":
		doWatch(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`votectl - kumpul poll client

Commands:
  tally    [--addr URL]
  my-vote  [--addr URL] <location|date>
  vote     [--addr URL] <location|date> <option>
  cancel   [--addr URL] <location|date>
  watch    [--addr URL] <location|date>

Common flags:
  --addr     API base URL (env KUMPUL_URL, default http://localhost:3318)
  --token    Gateway bearer key (env GATEWAY_KEY)
  --state    Local state file (default <config dir>/kumpul/state.json)
  --catalog  YAML option catalog`)
}

type common struct {
	addr    *string
	token   *string
	state   *string
	catalog *string
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		addr:    fs.String("addr", envOr("KUMPUL_URL", "http://localhost:3318"), ""),
		token:   fs.String("token", os.Getenv("GATEWAY_KEY"), ""),
		state:   fs.String("state", defaultStatePath(), ""),
		catalog: fs.String("catalog", "", ""),
	}
}

func (c common) client() *pollclient.Client {
	return pollclient.NewClient(*c.addr, *c.token, nil)
}

func (c common) storage() *pollclient.FileStorage {
	return pollclient.NewFileStorage(*c.state)
}

func (c common) identity() string {
	id, err := auth.StoredIdentity{KV: c.storage()}.AnonymousID()
	if err != nil {
		log.Fatalf("identity: %v", err)
	}
	return id
}

func (c common) loadCatalog() polls.Catalog {
	if *c.catalog == "" {
		return polls.DefaultCatalog()
	}
	cat, err := polls.LoadCatalog(*c.catalog)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	return cat
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kumpul-state.json"
	}
	return filepath.Join(dir, "kumpul", "state.json")
}

func pollArg(fs *flag.FlagSet, i int) models.PollType {
	pt, err := polls.ParsePollType(fs.Arg(i))
	if err != nil {
		log.Fatalf("%v (want location or date)", err)
	}
	return pt
}

func timeoutCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// --- commands ---

func doTally(args []string) {
	fs := flag.NewFlagSet("tally", flag.ExitOnError)
	c := commonFlags(fs)
	fs.Parse(args)

	ctx, cancel := timeoutCtx()
	defer cancel()
	all, err := c.client().Tallies(ctx)
	if err != nil {
		log.Fatalf("tally: %v", err)
	}

	cat := c.loadCatalog()
	for _, pt := range models.PollTypes {
		opts, _ := cat.Options(pt)
		printTally(pt, opts, all.For(pt), "")
		fmt.Println()
	}
}

func doMyVote(args []string) {
	fs := flag.NewFlagSet("my-vote", flag.ExitOnError)
	c := commonFlags(fs)
	fs.Parse(args)
	pt := pollArg(fs, 0)

	ctx, cancel := timeoutCtx()
	defer cancel()
	option, voted, err := c.client().MyVote(ctx, pt, c.identity())
	if err != nil {
		log.Fatalf("my-vote: %v", err)
	}
	if !voted {
		fmt.Printf("No vote on %s yet\n", pt)
		return
	}
	fmt.Printf("%s: %s\n", pt, option)
}

func doVote(args []string) {
	fs := flag.NewFlagSet("vote", flag.ExitOnError)
	c := commonFlags(fs)
	fs.Parse(args)
	pt := pollArg(fs, 0)
	option := strings.Join(fs.Args()[1:], " ")
	if option == "" {
		log.Fatal("vote: option required")
	}

	ctx, cancel := timeoutCtx()
	defer cancel()
	tally, err := c.client().Cast(ctx, pt, c.identity(), option)
	if err != nil {
		log.Fatalf("vote: %v", err)
	}
	if err := c.storage().Set("voted-"+string(pt), "true"); err != nil {
		log.Printf("warning: could not save voted flag: %v", err)
	}

	opts, _ := c.loadCatalog().Options(pt)
	fmt.Printf("OK voted %q\n\n", option)
	printTally(pt, opts, tally, option)
}

func doCancel(args []string) {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	c := commonFlags(fs)
	fs.Parse(args)
	pt := pollArg(fs, 0)

	ctx, cancel := timeoutCtx()
	defer cancel()
	tally, err := c.client().Cancel(ctx, pt, c.identity())
	if err != nil {
		log.Fatalf("cancel: %v", err)
	}
	if err := c.storage().Delete("voted-" + string(pt)); err != nil {
		log.Printf("warning: could not clear voted flag: %v", err)
	}

	opts, _ := c.loadCatalog().Options(pt)
	fmt.Printf("OK cancelled %s vote\n\n", pt)
	printTally(pt, opts, tally, "")
}

// doWatch runs the interactive poll widget. Typing an option number picks
// it; picking the saved option again cancels.
func doWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	c := commonFlags(fs)
	debounce := fs.Duration("debounce", pollclient.DefaultDebounce, "")
	refresh := fs.Duration("refresh", pollclient.DefaultRefreshInterval, "")
	fs.Parse(args)
	pt := pollArg(fs, 0)

	opts, _ := c.loadCatalog().Options(pt)
	store := c.storage()

	w := pollclient.NewWidget(c.client(), auth.StoredIdentity{KV: store}, pt, opts, pollclient.Options{
		Debounce:        *debounce,
		RefreshInterval: *refresh,
		Flags:           store,
		OnChange:        render,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Mount(ctx); err != nil {
		log.Fatalf("watch: %v", err)
	}
	defer w.Unmount()

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || n < 1 || n > len(opts) {
				fmt.Printf("enter 1-%d\n", len(opts))
				continue
			}
			if err := w.Select(opts[n-1]); err != nil {
				fmt.Printf("select: %v\n", err)
			}
		}
	}
}

// --- rendering ---

func printTally(pt models.PollType, options []string, tally models.Tally, mine string) {
	fmt.Printf("%s (%s votes)\n", strings.ToUpper(string(pt)), humanize.Comma(int64(tally.Total())))
	for i, o := range options {
		marker := " "
		if o == mine {
			marker = "*"
		}
		fmt.Printf(" %s %d. %-24s %5s  %s\n", marker, i+1, o,
			humanize.FtoaWithDigits(tally.Percent(o), 1)+"%",
			humanize.Comma(int64(tally[o])))
	}
}

var (
	renderMu     sync.Mutex
	watchStarted = time.Now()
)

func render(v pollclient.View) {
	renderMu.Lock()
	defer renderMu.Unlock()

	fmt.Println()
	printTally(v.PollType, v.Options, v.Tally, v.Selected)

	switch v.State {
	case pollclient.PendingSave:
		fmt.Println("saving...")
	case pollclient.Saved:
		fmt.Printf("your vote: %s\n", v.Saved)
	}
	if v.Error != "" {
		fmt.Printf("! %s\n", v.Error)
	}
	fmt.Printf("watching since %s\n", humanize.Time(watchStarted))
}
