package main

import (
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	log "github.com/sirupsen/logrus"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
	lineHeight   = 16
)

const (
	tabInfo = iota
	tabLegend
)

type viewer struct {
	maps       []mapInfo
	mapIndex   int
	sidebarTab int
	legend     []string
}

func main() {
	dir := flag.String("maps", "assets/maps", "directory of YAML maps")
	flag.Parse()

	ensureRuntimeCWD()

	maps, err := loadMaps(*dir)
	if err != nil {
		log.Fatalf("Map viewer: %v", err)
	}

	v := &viewer{
		maps:   maps,
		legend: legendLines(),
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Portalcaster Map Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.sidebarTab = 1 - v.sidebarTab
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		v.sidebarTab = tabInfo
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		v.sidebarTab = tabLegend
	}

	n := len(v.maps)
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		v.mapIndex = (v.mapIndex + 1) % n
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.mapIndex = (v.mapIndex + n - 1) % n
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	padding := 16
	mapW := screenW - sidebarWidth - padding*3
	mapH := screenH - padding*2
	sidebarX := padding*2 + mapW

	m := v.maps[v.mapIndex]
	drawMapPanel(screen, m, padding, padding, mapW, mapH)
	drawSidebar(screen, v, m, sidebarX, padding, sidebarWidth, mapH)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func drawMapPanel(screen *ebiten.Image, m mapInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s (%s)", m.Key, m.Path), x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch maps, Esc to quit", x+12, y+24)

	if m.Data == nil {
		ebitenutil.DebugPrintAt(screen, "map failed to load, see sidebar", x+12, y+48)
		return
	}

	rows := len(m.Data.Tiles)
	cols := 0
	for _, row := range m.Data.Tiles {
		cols = max(cols, len(row))
	}
	top := 48
	ts := fitTileSize(w-24, h-top-12, cols, rows)
	if ts == 0 {
		return
	}
	originX := x + (w-cols*ts)/2
	originY := y + top + (h-top-rows*ts)/2

	for ty, row := range m.Data.Tiles {
		for tx, code := range row {
			drawFilledRect(screen, originX+tx*ts, originY+ty*ts, ts-1, ts-1, mapTileColor(code))
		}
	}

	drawPortalLinks(screen, m, originX, originY, ts)
	drawStart(screen, m, originX, originY, ts)
}

func drawPortalLinks(screen *ebiten.Image, m mapInfo, originX, originY, ts int) {
	half := float32(ts) / 2
	for i, link := range m.Data.Links {
		ax := float32(originX+link[0].X*ts) + half
		ay := float32(originY+link[0].Y*ts) + half
		bx := float32(originX+link[1].X*ts) + half
		by := float32(originY+link[1].Y*ts) + half
		vector.StrokeLine(screen, ax, ay, bx, by, 2, color.RGBA{220, 140, 255, 200}, true)
		if ts >= 12 {
			label := fmt.Sprintf("%d", i)
			ebitenutil.DebugPrintAt(screen, label, int(ax)-3, int(ay)-8)
			ebitenutil.DebugPrintAt(screen, label, int(bx)-3, int(by)-8)
		}
	}
}

func drawStart(screen *ebiten.Image, m mapInfo, originX, originY, ts int) {
	scale := float32(ts) / float32(m.Data.TileSize)
	cx := float32(originX) + float32(m.Data.StartX)*scale
	cy := float32(originY) + float32(m.Data.StartY)*scale
	radius := float32(ts) * 0.3
	vector.DrawFilledCircle(screen, cx, cy, radius, color.RGBA{50, 200, 255, 255}, true)
	vector.StrokeCircle(screen, cx, cy, radius, 1, color.RGBA{255, 255, 255, 255}, true)

	dx := float32(math.Cos(m.Data.StartAngle)) * float32(ts)
	dy := float32(math.Sin(m.Data.StartAngle)) * float32(ts)
	vector.StrokeLine(screen, cx, cy, cx+dx, cy+dy, 2, color.RGBA{255, 220, 0, 255}, true)
}

func drawSidebar(screen *ebiten.Image, v *viewer, m mapInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	tabHeight := 24
	drawSidebarTabs(screen, x, y, w, tabHeight, v.sidebarTab)

	lines := v.legend
	if v.sidebarTab == tabInfo {
		lines = infoLines(m)
		lines = append(lines, "", fmt.Sprintf("Map %d of %d", v.mapIndex+1, len(v.maps)))
	}
	row := y + tabHeight + 12
	for _, line := range lines {
		if row > y+h-lineHeight {
			break
		}
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += lineHeight
	}
}

func drawSidebarTabs(screen *ebiten.Image, x, y, w, h int, active int) {
	tabW := w / 2
	idle := color.RGBA{40, 40, 55, 255}
	selected := color.RGBA{70, 70, 95, 255}
	infoColor, legendColor := selected, idle
	if active == tabLegend {
		infoColor, legendColor = idle, selected
	}
	drawFilledRect(screen, x, y, tabW, h, infoColor)
	drawFilledRect(screen, x+tabW, y, w-tabW, h, legendColor)
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})
	ebitenutil.DebugPrintAt(screen, "Info (1)", x+10, y+6)
	ebitenutil.DebugPrintAt(screen, "Legend (2)", x+tabW+10, y+6)
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}

// ensureRuntimeCWD moves to the executable's directory when started from
// elsewhere so relative asset paths resolve.
func ensureRuntimeCWD() {
	if _, err := os.Stat("config.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	_ = os.Chdir(filepath.Dir(exe))
}
