package canvas

import "image"

type GridCellKind int

const (
	CellEmpty      GridCellKind = iota // Outline only
	CellImage                          // One source bitmap
	CellLogo                           // Static brand logo
	CellBanner                         // Left half of a 2-wide banner
	CellBannerTail                     // Right half of a 2-wide banner
)

type gridCell struct {
	Kind GridCellKind
	Slot int // Source index for CellImage/CellBanner, -1 otherwise
}

// Occupancy plan for a grid montage. Banners are always two columns wide and
// occupy both of their cells, so geometry stays intact no matter which half
// gets cleared later.
type GridPlan struct {
	Rows  int
	Cols  int
	cells []gridCell
}

func NewGridPlan(rows, cols int) *GridPlan {
	p := &GridPlan{Rows: rows, Cols: cols, cells: make([]gridCell, rows*cols)}
	for i := range p.cells {
		p.cells[i].Slot = -1
	}
	return p
}

func (p *GridPlan) index(row, col int) int { return row*p.Cols + col }

func (p *GridPlan) valid(row, col int) bool {
	return row >= 0 && row < p.Rows && col >= 0 && col < p.Cols
}

func (p *GridPlan) Kind(row, col int) GridCellKind {
	if !p.valid(row, col) {
		return CellEmpty
	}
	return p.cells[p.index(row, col)].Kind
}

func (p *GridPlan) Slot(row, col int) int {
	if !p.valid(row, col) {
		return -1
	}
	return p.cells[p.index(row, col)].Slot
}

func (p *GridPlan) Occupied(row, col int) bool {
	return p.Kind(row, col) != CellEmpty
}

func (p *GridPlan) PlaceImage(row, col, slot int) bool {
	if !p.valid(row, col) || p.Occupied(row, col) {
		return false
	}
	p.cells[p.index(row, col)] = gridCell{Kind: CellImage, Slot: slot}
	return true
}

func (p *GridPlan) PlaceLogo(row, col, slot int) bool {
	if !p.valid(row, col) || p.Occupied(row, col) {
		return false
	}
	p.cells[p.index(row, col)] = gridCell{Kind: CellLogo, Slot: slot}
	return true
}

// A banner needs this cell and the one to its right, so the last column can
// never host one.
func (p *GridPlan) PlaceBanner(row, col, slot int) bool {
	if !p.valid(row, col) || col == p.Cols-1 {
		return false
	}
	if p.Occupied(row, col) || p.Occupied(row, col+1) {
		return false
	}
	p.cells[p.index(row, col)] = gridCell{Kind: CellBanner, Slot: slot}
	p.cells[p.index(row, col+1)] = gridCell{Kind: CellBannerTail, Slot: slot}
	return true
}

// Clearing either half of a banner clears both
func (p *GridPlan) Clear(row, col int) {
	if !p.valid(row, col) {
		return
	}
	switch p.Kind(row, col) {
	case CellBanner:
		p.cells[p.index(row, col+1)] = gridCell{Slot: -1}
	case CellBannerTail:
		p.cells[p.index(row, col-1)] = gridCell{Slot: -1}
	}
	p.cells[p.index(row, col)] = gridCell{Slot: -1}
}

// Row-major fill of sources into image cells, extras stay empty
func BuildGridPlan(rows, cols, sourceCount int) *GridPlan {
	p := NewGridPlan(rows, cols)
	slot := 0
	for row := 0; row < rows && slot < sourceCount; row++ {
		for col := 0; col < cols && slot < sourceCount; col++ {
			p.PlaceImage(row, col, slot)
			slot++
		}
	}
	return p
}

// Role-aware fill: banners claim two cells, logos claim one, everything
// else lands in the next free cell row-major
func PlanFromRoles(rows, cols int, roles []string) *GridPlan {
	p := NewGridPlan(rows, cols)

	place := func(fn func(row, col int) bool) {
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				if fn(row, col) {
					return
				}
			}
		}
	}

	for slot, role := range roles {
		slot := slot
		switch role {
		case "banner":
			place(func(row, col int) bool { return p.PlaceBanner(row, col, slot) })
		case "logo":
			place(func(row, col int) bool { return p.PlaceLogo(row, col, slot) })
		default:
			place(func(row, col int) bool { return p.PlaceImage(row, col, slot) })
		}
	}
	return p
}

// Draw one complete montage frame. Cells with a missing bitmap render a
// placeholder so the grid geometry never collapses.
func RenderGrid(s *Surface, plan *GridPlan, sources []Source, logo image.Image, timeMs int) {
	margin := s.H() * 0.05
	gap := s.H() * 0.02
	cellW := (s.W() - 2*margin - float64(plan.Cols-1)*gap) / float64(plan.Cols)
	cellH := (s.H() - 2*margin - float64(plan.Rows-1)*gap) / float64(plan.Rows)
	cell := min(cellW, cellH)
	radius := cell * 0.08

	// Center the grid on the canvas
	gridW := float64(plan.Cols)*cell + float64(plan.Cols-1)*gap
	gridH := float64(plan.Rows)*cell + float64(plan.Rows-1)*gap
	originX := (s.W() - gridW) / 2
	originY := (s.H() - gridH) / 2

	for row := 0; row < plan.Rows; row++ {
		for col := 0; col < plan.Cols; col++ {
			x := originX + float64(col)*(cell+gap)
			y := originY + float64(row)*(cell+gap)

			switch plan.Kind(row, col) {
			case CellImage:
				var img image.Image
				if slot := plan.Slot(row, col); slot >= 0 && slot < len(sources) {
					img = sources[slot].BitmapAt(timeMs)
				}
				s.DrawSlot(img, x, y, cell, cell, radius)

			case CellLogo:
				// A logo-role source wins, the configured brand asset is
				// the fallback
				img := logo
				if slot := plan.Slot(row, col); slot >= 0 && slot < len(sources) {
					if b := sources[slot].BitmapAt(timeMs); b != nil {
						img = b
					}
				}
				s.DrawSlot(img, x, y, cell, cell, radius)

			case CellBanner:
				var img image.Image
				if slot := plan.Slot(row, col); slot >= 0 && slot < len(sources) {
					img = sources[slot].BitmapAt(timeMs)
				}
				s.DrawSlot(img, x, y, cell*2+gap, cell, radius)

			case CellBannerTail:
				// Covered by the banner draw

			default:
				s.DrawEmptyCell(x, y, cell, cell, radius)
			}
		}
	}
}
