package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/config"
	"github.com/Carmen-Shannon/oxy-view/engine"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/environment"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/Carmen-Shannon/oxy-view/engine/swap"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
)

const materialStep = 0.05

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "path to the viewer config file")
	flag.Parse()

	cfg := config.Load(*configPath)

	// ── Window ──────────────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)

	// ── Renderer ────────────────────────────────────────────────────────
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)

	// ── Camera ──────────────────────────────────────────────────────────
	controller := camera.NewOrbitController(
		camera.WithRadius(cfg.Camera.Radius),
		camera.WithRadiusBounds(cfg.Camera.MinRadius, cfg.Camera.MaxRadius),
		camera.WithDamping(cfg.Camera.Damping),
		camera.WithRotateSpeed(cfg.Camera.RotateSpeed),
		camera.WithZoomSpeed(cfg.Camera.ZoomSpeed),
		camera.WithViewportHeight(win.Height()),
	)
	cam := camera.NewCamera(
		camera.WithController(controller),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
	)

	// ── Scene + Loading ─────────────────────────────────────────────────
	sc := scene.NewScene(cam, r)
	coordinator := swap.NewCoordinator(loader.NewLoader(r), sc)
	defer coordinator.Close()

	env := environment.NewEnvironment(r)
	if cfg.Environment != "" {
		if err := env.Load(cfg.Environment); err != nil {
			log.Printf("[Viewer] %v", err)
		}
	}

	// The override material shared across model swaps. Applied on first
	// adjustment, cleared with the C key.
	override := material.NewMaterial(
		material.WithName("override"),
		material.WithBaseColor(cfg.Material.BaseColor[0], cfg.Material.BaseColor[1], cfg.Material.BaseColor[2], cfg.Material.BaseColor[3]),
		material.WithMetallic(cfg.Material.Metallic),
		material.WithRoughness(cfg.Material.Roughness),
	)

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(sc),
		engine.WithRenderer(r),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
		engine.WithProfiling(cfg.Engine.Profiling),
	)

	setupInput(eng, controller, coordinator, sc, env, override, cfg)

	eng.SetTickCallback(func(_ float32) {
		controller.Update()
		cam.Update()
		coordinator.Drain()
	})

	if len(cfg.Models) > 0 {
		coordinator.Request(cfg.Models[0])
	}

	fmt.Println("Material Viewer")
	fmt.Println("  Left-drag: orbit   Scroll: zoom")
	fmt.Println("  1-9: load model    M/N: metallic -/+   R/T: roughness -/+")
	fmt.Println("  C: restore imported materials   E: reload environment")

	eng.Run()

	if live := sc.Detach(); live != nil {
		live.Release()
	}
	r.Release()
}

// setupInput wires the pointer, wheel, and key handlers.
//
// Parameters:
//   - eng: the engine providing window callbacks
//   - controller: the orbit controller driven by pointer input
//   - coordinator: the swap coordinator driven by the number keys
//   - sc: the scene receiving material overrides
//   - env: the environment, reloaded with the E key
//   - override: the shared override material the letter keys adjust
//   - cfg: the loaded configuration holding the model catalog
func setupInput(
	eng engine.Engine,
	controller camera.OrbitController,
	coordinator swap.Coordinator,
	sc scene.Scene,
	env environment.Environment,
	override material.Material,
	cfg config.Config,
) {
	win := eng.Window()

	win.SetLeftMouseDownCallback(func(x, y int32) {
		controller.BeginDrag(float32(x), float32(y))
	})
	win.SetLeftMouseUpCallback(func(_, _ int32) {
		controller.EndDrag()
	})
	win.SetMouseLeaveCallback(func() {
		controller.EndDrag()
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		controller.Drag(float32(x), float32(y))
	})

	// GLFW reports scroll-up as positive; scroll-up zooms in, which means a
	// shrinking radius.
	win.SetScrollCallback(func(delta float32) {
		controller.Zoom(-delta)
	})

	win.SetKeyDownCallback(func(keyCode uint32) {
		switch {
		case keyCode >= common.Key1 && keyCode <= common.Key9:
			slot := int(keyCode - common.Key1)
			if slot < len(cfg.Models) {
				coordinator.Request(cfg.Models[slot])
			}
		case keyCode == common.KeyM:
			sc.ApplyMaterial(override)
			log.Printf("[Viewer] metallic: %.2f", override.AdjustMetallic(-materialStep))
		case keyCode == common.KeyN:
			sc.ApplyMaterial(override)
			log.Printf("[Viewer] metallic: %.2f", override.AdjustMetallic(materialStep))
		case keyCode == common.KeyR:
			sc.ApplyMaterial(override)
			log.Printf("[Viewer] roughness: %.2f", override.AdjustRoughness(-materialStep))
		case keyCode == common.KeyT:
			sc.ApplyMaterial(override)
			log.Printf("[Viewer] roughness: %.2f", override.AdjustRoughness(materialStep))
		case keyCode == common.KeyC:
			sc.ApplyMaterial(nil)
		case keyCode == common.KeyE:
			if env.Path() != "" {
				if err := env.Load(env.Path()); err != nil {
					log.Printf("[Viewer] %v", err)
				}
			}
		}
	})
}
