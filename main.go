package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"pdf-workbench/internal/docops"
	"pdf-workbench/internal/logger"
	"pdf-workbench/internal/types"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

// Command line flags
var (
	mergeFlag    = flag.String("merge", "", "Comma-separated list of PDF files to merge")
	splitFlag    = flag.String("split", "", "PDF file to split into per-page files")
	compressFlag = flag.String("compress", "", "PDF file to compress via Ghostscript")
	extractFlag  = flag.String("extract", "", "PDF file to extract pages from (with --pages)")
	pagesFlag    = flag.String("pages", "", "Comma-separated 0-based page indices for --extract (e.g. 3,0,1)")
	qualityFlag  = flag.String("quality", types.DefaultPreset, "Compression preset: screen, ebook, printer, prepress")
	outputFlag   = flag.String("output", "", "Output file or directory")
	timeoutFlag  = flag.Int("timeout", 0, "External tool timeout in seconds (0 uses the default)")
	cliFlag      = flag.Bool("cli", false, "Run in CLI mode without GUI")
)

// printHelp displays the help information for command line usage.
func printHelp() {
	fmt.Println("PDF Workbench - merge, split, compress and reorder PDF files")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pdf-workbench [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --merge <a.pdf,b.pdf,...>  Merge the listed files in order")
	fmt.Println("  --split <file.pdf>         Split into {basename}_page_{n}.pdf files")
	fmt.Println("  --compress <file.pdf>      Compress via Ghostscript")
	fmt.Println("  --extract <file.pdf>       Write the pages given by --pages, in order")
	fmt.Println("  --pages <i,j,k>            0-based page indices for --extract")
	fmt.Println("  --quality <preset>         screen, ebook, printer or prepress (default ebook)")
	fmt.Println("  --output <path>            Output file (merge/compress/extract) or directory (split)")
	fmt.Println("  --timeout <seconds>        External tool timeout (default 120)")
	fmt.Println("  --cli                      Command line mode, no GUI")
	fmt.Println("  -h, --help                 Show this help")
	fmt.Println()
	fmt.Println("Without options the graphical interface is started.")
}

// PreviewHandler serves rendered page thumbnails to the frontend.
// URL format: /preview/{absolute pdf path}?page=N&width=W (page is 0-based).
// Any rendering failure answers 404; the frontend shows a placeholder icon.
type PreviewHandler struct {
	app *App
}

func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/preview/") {
		http.NotFound(w, r)
		return
	}

	// net/http hands us the path already percent-decoded.
	filePath := strings.TrimPrefix(r.URL.Path, "/preview/")

	if _, err := os.Stat(filePath); err != nil {
		http.NotFound(w, r)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	width, _ := strconv.Atoi(r.URL.Query().Get("width"))
	if width <= 0 {
		width = PagePreviewWidth
	}

	data, err := h.app.RenderPagePreviewRaw(r.Context(), filePath, page, width)
	if err != nil {
		logger.Debug("preview render failed",
			logger.String("path", filePath), logger.Err(err))
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=300")
	w.Write(data)
}

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *cliFlag {
		runCLI()
		return
	}

	// Log to a file next to the config; the GUI has no console.
	logger.Init(logger.DefaultConfig())
	defer logger.Close()

	app := NewApp()
	app.SetWailsRuntime(true)

	err := wails.Run(&options.App{
		Title:  "PDF Workbench",
		Width:  900,
		Height: 650,
		AssetServer: &assetserver.Options{
			Assets:  assets,
			Handler: &PreviewHandler{app: app},
		},
		BackgroundColour: &options.RGBA{R: 250, G: 250, B: 250, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		OnBeforeClose: func(ctx context.Context) (prevent bool) {
			// Close requests during a running task are refused outright,
			// never queued or deferred.
			if app.IsProcessing() {
				app.safeEmit(EventToast, "Cannot close while a task is in progress.")
				return true
			}
			return false
		},
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logger.Error("wails run failed", err)
	}
}

// runCLI executes one document operation headlessly using the same core
// the GUI uses.
func runCLI() {
	logger.Init(&logger.Config{
		LogFilePath:   "pdf-workbench-cli.log",
		Level:         logger.LevelInfo,
		EnableConsole: false,
	})
	defer logger.Close()

	selected := 0
	for _, f := range []string{*mergeFlag, *splitFlag, *compressFlag, *extractFlag} {
		if f != "" {
			selected++
		}
	}
	if selected != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --merge, --split, --compress or --extract is required in CLI mode")
		fmt.Println()
		printHelp()
		os.Exit(1)
	}

	var err error
	switch {
	case *mergeFlag != "":
		err = runMergeCLI(strings.Split(*mergeFlag, ","), *outputFlag)
	case *splitFlag != "":
		err = runSplitCLI(*splitFlag, *outputFlag)
	case *compressFlag != "":
		err = runCompressCLI(*compressFlag, *outputFlag, *qualityFlag)
	case *extractFlag != "":
		err = runExtractCLI(*extractFlag, *outputFlag, *pagesFlag)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMergeCLI(paths []string, output string) error {
	if output == "" {
		output = "merged.pdf"
	}
	for i := range paths {
		paths[i] = strings.TrimSpace(paths[i])
	}

	fmt.Printf("Merging %d files into %s\n", len(paths), output)
	if err := docops.Merge(paths, output); err != nil {
		return err
	}

	pages, err := docops.PageCount(output)
	if err == nil {
		fmt.Printf("Done: %d pages.\n", pages)
	} else {
		fmt.Println("Done.")
	}
	return nil
}

func runSplitCLI(path, outputDir string) error {
	if outputDir == "" {
		outputDir = strings.TrimSuffix(path, ".pdf") + "_pages"
	}

	fmt.Printf("Splitting %s into %s\n", path, outputDir)
	pages, err := docops.Split(path, outputDir)
	if err != nil {
		return err
	}
	fmt.Printf("Done: %d pages written.\n", pages)
	return nil
}

func runCompressCLI(path, output, quality string) error {
	if output == "" {
		output = strings.TrimSuffix(path, ".pdf") + "_compressed.pdf"
	}
	if !types.ValidPreset(quality) {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown compression preset", quality, nil)
	}

	fmt.Printf("Compressing %s -> %s (preset %s)\n", path, output, quality)
	compressor := docops.NewCompressor("", time.Duration(*timeoutFlag)*time.Second)
	if err := compressor.Compress(context.Background(), path, output, quality); err != nil {
		return err
	}

	if fi, err := os.Stat(output); err == nil {
		fmt.Printf("Done: %d bytes.\n", fi.Size())
	} else {
		fmt.Println("Done.")
	}
	return nil
}

func runExtractCLI(path, output, pages string) error {
	if output == "" {
		output = strings.TrimSuffix(path, ".pdf") + "_reordered.pdf"
	}
	if pages == "" {
		return types.NewAppError(types.ErrInvalidInput, "--pages is required with --extract", nil)
	}

	var order []int
	for _, part := range strings.Split(pages, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid page index", part, err)
		}
		order = append(order, idx)
	}

	fmt.Printf("Extracting %d pages from %s -> %s\n", len(order), path, output)
	if err := docops.ExtractOrdered(path, output, order); err != nil {
		return err
	}
	fmt.Println("Done.")
	return nil
}
