package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/chip8vm/chip8/chip8"
	"github.com/chip8vm/chip8/internal/clock"
	"github.com/chip8vm/chip8/internal/config"
	"github.com/chip8vm/chip8/internal/debugger"
	"github.com/chip8vm/chip8/internal/trace"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Height of the register panel below the screen.
	///
	PanelHeight = 64

	/// Number of trace lines printed when scrolling or on a fault.
	///
	TraceLines = 16
)

var (
	/// The CHIP-8 virtual machine and the debugger driving it.
	///
	VM    *chip8.CHIP_8
	Debug *debugger.Debugger

	/// Clock paces emulation against wall time.
	///
	Clock *clock.Clock

	/// Logger for everything outside the window.
	///
	Logger *log.Logger

	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer

	/// File is the currently loaded program.
	///
	File string

	/// Scale is the size of a CHIP-8 pixel in the window.
	///
	Scale int32
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := config.ParseFlags(filepath.Base(os.Args[0]), os.Args[1:], false)
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	Logger = config.CreateLogger(opts.Debug, opts.Quiet)

	if err := run(opts); err != nil {
		Logger.Error("Emulator failed", log.Err(err))
		dialog.Message("%s", err).Title("CHIP-8").Error()
		os.Exit(1)
	}
}

func run(opts config.Options) error {
	var err error

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}

	// create a new CHIP-8 virtual machine, must happen early!
	VM = chip8.NewWithRandom(chip8.NewRandomSource(seed))
	Debug = debugger.New(Logger, VM, trace.DefaultCapacity)

	// set processor speed
	Clock = clock.New(opts.Speed)
	Clock.Paused = opts.Paused

	// initialize SDL
	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}
	defer sdl.Quit()

	Scale = int32(opts.Scale)

	// create the main window and renderer
	w := chip8.Width * Scale
	h := chip8.Height*Scale + PanelHeight
	if Window, Renderer, err = sdl.CreateWindowAndRenderer(w, h, uint32(sdl.WINDOW_SHOWN)); err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer Window.Destroy()
	defer Renderer.Destroy()

	// initialize subsystems
	if err = InitScreen(); err != nil {
		return err
	}
	InitAudio()
	defer CloseAudio()

	if opts.File != "" {
		if err = Load(opts.File); err != nil {
			return err
		}
	} else {
		LoadDialog()
	}

	Logger.Debug("Emulator started",
		log.Int("speed", Clock.Speed),
		log.Int("scale", opts.Scale),
		log.Int("seed", int(seed)))

	// refresh rate
	video := time.NewTicker(time.Second / 60)
	defer video.Stop()

	// loop until window closed or user quit
	for ProcessEvents() {
		<-video.C

		Process()
		Refresh()
	}

	return nil
}

/// Load a program file and restart emulation.
///
func Load(path string) error {
	if err := Debug.LoadFile(path); err != nil {
		return err
	}

	File = path
	Clock.Reset()
	UpdateTitle()

	return nil
}

/// LoadDialog asks for a program to load. Errors are shown, not fatal.
///
func LoadDialog() {
	path, err := dialog.File().
		Filter("CHIP-8 programs", "ch8", "c8", "asm").
		Title("Load CHIP-8 program").
		Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			Logger.Error("File dialog failed", log.Err(err))
		}
		return
	}

	if err := Load(path); err != nil {
		Logger.Error("Loading program failed", log.Err(err))
		dialog.Message("%s", err).Title("CHIP-8").Error()
	}
}

/// Process CHIP-8 emulation until the clock is caught up.
///
func Process() {
	if File == "" {
		return
	}

	report, err := Clock.Process(Debug)
	if err != nil {
		Pause(true)
		Debug.Report(err, TraceLines)
	}

	UpdateAudio(report.StopTone)
}

/// Pause or resume emulation.
///
func Pause(paused bool) {
	if Clock.Paused && !paused {
		Debug.Resume()
	}

	Clock.Paused = paused
	UpdateTitle()
}

/// UpdateTitle shows the program, speed and run state.
///
func UpdateTitle() {
	title := "CHIP-8"

	if File != "" {
		title = fmt.Sprintf("CHIP-8 - %s - %d Hz", filepath.Base(File), Clock.Speed)
	}

	if VM.Fault() != nil {
		title += " [HALTED]"
	} else if Clock.Paused {
		title += " [PAUSED]"
	}

	Window.SetTitle(title)
}

/// Refresh redraws the whole window.
///
func Refresh() {
	Renderer.SetDrawColor(32, 42, 53, 255)
	Renderer.Clear()

	// update the video screen and copy it
	RefreshScreen()
	CopyScreen(0, 0, chip8.Width*Scale, chip8.Height*Scale)

	// frame the register panel and fill it
	y := chip8.Height * Scale
	Frame(2, y+2, chip8.Width*Scale-4, PanelHeight-4)
	DebugRegisters(8, y+8)

	// show the new frame
	Renderer.Present()
}

/// Frame draws a bevelled rectangle.
///
func Frame(x, y, w, h int32) {
	Renderer.SetDrawColor(0, 0, 0, 255)
	Renderer.DrawLine(x, y, x+w, y)
	Renderer.DrawLine(x, y, x, y+h)

	// highlight
	Renderer.SetDrawColor(95, 112, 120, 255)
	Renderer.DrawLine(x+w, y, x+w, y+h)
	Renderer.DrawLine(x, y+h, x+w, y+h)
}
