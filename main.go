package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"SuperBoard/internal/board"
	"SuperBoard/internal/config"
	"SuperBoard/internal/event"
	"SuperBoard/internal/history"
	"SuperBoard/internal/logging"
	"SuperBoard/internal/net"
	"SuperBoard/internal/pages"
	"SuperBoard/internal/tools"
	"SuperBoard/internal/ui"

	"fyne.io/fyne/v2"
)

type CLIOpts struct {
	doLog    bool
	bridge   bool
	port     int
	discover bool
	pagesDir string
	link     string
}

func parseCLIOpts() CLIOpts {
	var opt CLIOpts
	flag.BoolVar(&opt.doLog, "log", false, "Print debugging output to stderr")
	flag.BoolVar(&opt.bridge, "bridge", false, "Accept remote input devices on the local network")
	flag.IntVar(&opt.port, "port", 0, "Bridge port, overrides the config file")
	flag.BoolVar(&opt.discover, "discover", false, "List boards advertised on the local network and exit")
	flag.StringVar(&opt.pagesDir, "pages", "", "Directory the pages are kept in")
	flag.Parse()
	opt.link = flag.Arg(0)
	return opt
}

func main() {
	opt := parseCLIOpts()

	if opt.discover {
		runDiscover()
		return
	}
	if strings.HasPrefix(opt.link, net.CustomURLScheme) {
		runClient(opt.link)
		return
	}

	confDir := config.Dir()
	conf, err := config.Load(confDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogging(conf, opt.doLog)
	runHost(conf, confDir, opt)
}

func setupLogging(conf config.Config, debug bool) {
	level, err := conf.Level()
	if err != nil {
		log.Printf("Invalid log level, using info: %v", err)
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runHost(conf config.Config, confDir string, opt CLIOpts) {
	log.Println("Starting board")
	background, err := tools.ParseHexColor(conf.Canvas.Background)
	if err != nil {
		log.Fatalf("Bad background colour: %v", err)
	}
	dispatcher := history.DispatcherFunc(fyne.Do)
	b, err := board.New(board.Options{
		Width:        conf.Canvas.Width,
		Height:       conf.Canvas.Height,
		Background:   background,
		MaxHistory:   conf.History.Max,
		HistoryCache: conf.History.Cache,
		Dispatcher:   dispatcher,
	})
	if err != nil {
		log.Fatalf("Failed to create board: %v", err)
	}
	applyTools(b.Tools(), conf)

	pagesDir := opt.pagesDir
	if pagesDir == "" {
		pagesDir = conf.PagesDir
	}
	if pagesDir == "" {
		pagesDir = filepath.Join(confDir, "pages")
	}
	pm := pages.NewManager(b)
	pm.Attach(b.Bus())
	if list, err := pages.Load(pagesDir); err != nil {
		log.Printf("Failed to load pages from %s: %v", pagesDir, err)
	} else if len(list) > 0 {
		if err := pm.Restore(list); err != nil {
			log.Printf("Failed to restore pages: %v", err)
		}
		log.Printf("Restored %d pages from %s", pm.Len(), pagesDir)
	}

	var shareLink string
	var bridge *net.Bridge
	if conf.Bridge.Enabled || opt.bridge {
		port := conf.Bridge.Port
		if opt.port > 0 {
			port = opt.port
		}
		bridge = startBridge(b, dispatcher, port)
		shareLink = net.ShareLink(net.LocalIP(), port)
		log.Printf("[BRIDGE] Share link: %s", shareLink)

		if conf.Bridge.MDNS {
			server, err := net.Advertise(port)
			if err != nil {
				log.Printf("[BRIDGE] mDNS advertisement failed: %v", err)
			} else {
				defer server.Shutdown()
			}
		}
	}

	ui.RunApp(b, pm, ui.AppOptions{
		ShareLink: shareLink,
		OnPaletteChanged: func(custom []string) {
			conf.Palette = custom
			if err := config.Save(confDir, conf); err != nil {
				log.Printf("Failed to save palette: %v", err)
			}
		},
		OnClose: func() {
			if err := pm.Save(pagesDir); err != nil {
				log.Printf("Failed to save pages: %v", err)
			}
			if bridge != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := bridge.Shutdown(ctx); err != nil {
					log.Printf("[BRIDGE] Shutdown: %v", err)
				}
			}
		},
	})
}

// applyTools sets the tools up from the config. The config has already been
// validated, so errors here only mean a stale palette entry.
func applyTools(set *tools.Set, conf config.Config) {
	if err := set.Pen.SetType(tools.PenType(conf.Pen.Type)); err != nil {
		log.Printf("Pen type: %v", err)
	}
	if c, err := tools.ParseHexColor(conf.Pen.Color); err == nil {
		set.Pen.SetColor(c)
	}
	set.Pen.SetSize(conf.Pen.Size)
	if err := set.Eraser.SetSize(tools.EraserSize(conf.Eraser)); err != nil {
		log.Printf("Eraser size: %v", err)
	}
	for _, hex := range conf.Palette {
		if err := set.Palette.Add(hex); err != nil {
			log.Printf("Palette colour %s: %v", hex, err)
		}
	}
}

func startBridge(b *board.Board, dispatcher history.Dispatcher, port int) *net.Bridge {
	bridge := net.NewBridge(b, dispatcher)
	status := func() net.Status {
		return net.Status{
			Tool:    b.Tool(),
			Zoom:    b.Viewport().ZoomPercent(),
			CanUndo: b.CanUndo(),
			CanRedo: b.CanRedo(),
			Strokes: b.Store().Len(),
		}
	}
	bridge.Broadcast(status())
	b.Bus().Subscribe(func(event.Event) {
		bridge.Broadcast(status())
	}, event.ToolSwitched, event.HistoryChanged, event.ViewChanged, event.StrokesChanged)

	go func() {
		if err := bridge.ListenAndServe(port); err != nil {
			log.Printf("[BRIDGE] %v", err)
		}
	}()
	return bridge
}

func runClient(link string) {
	log.Println("Starting as remote")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := net.Dial(ctx, link)
	if err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	log.Println("Connected to board as", client.LocalAddr())
	ui.RunRemote(client)
}

func runDiscover() {
	found := 0
	err := net.Discover(3*time.Second, func(addr string) {
		found++
		fmt.Println(net.CustomURLScheme + addr)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Discovery failed: %v\n", err)
		os.Exit(1)
	}
	if found == 0 {
		fmt.Fprintln(os.Stderr, "No boards found")
	}
}
