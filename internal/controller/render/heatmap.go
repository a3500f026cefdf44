package render

import (
	"bytes"
	"image/color"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/modutime/scheduler_bot/internal/grid"
)

// Sizes and paddings of the heat map
const (
	headerHeight    = 48
	leftLabelsWidth = 72
	columnWidth     = 96
	rowHeight       = 28
	cellPadding     = 3.0
	cellRadius      = 5.0
	footerHeight    = 28
	maxColumns      = 31
)

// Color scheme
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	labelColor     = color.RGBA{110, 115, 120, 200}
	emptyCellColor = color.RGBA{220, 220, 220, 200}
	fullCellColor  = color.RGBA{133, 193, 85, 255}
	bestCellColor  = color.RGBA{255, 99, 71, 255}
	cellTextColor  = color.RGBA{20, 24, 28, 230}
	evenColumn     = color.NRGBA{240, 240, 240, 255}
	oddColumn      = color.NRGBA{230, 230, 230, 255}
)

// HeatMap draws one column per date and one row per slot, shaded by how many
// participants are available. Slots with the top count get a red frame.
func HeatMap(title string, days []grid.DaySummary, participants int) ([]byte, error) {
	if len(days) > maxColumns {
		days = days[:maxColumns]
	}

	rows := 0
	top := 0
	for _, day := range days {
		if len(day.Slots) > rows {
			rows = len(day.Slots)
		}
		for _, slot := range day.Slots {
			if slot.Count > top {
				top = slot.Count
			}
		}
	}

	width := leftLabelsWidth + len(days)*columnWidth
	height := headerHeight + rows*rowHeight + footerHeight

	dc := gg.NewContext(width, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, 8, headerHeight/4, 0, 0.5)

	for i, day := range days {
		x := float64(leftLabelsWidth + i*columnWidth)
		drawColumn(dc, i, x, rows)

		dc.SetColor(textColor)
		dc.DrawStringAnchored(grid.FormatDate(day.Date)[5:]+" "+weekdays[day.Date.Weekday()], x+columnWidth/2, headerHeight*3/4, 0.5, 0.5)

		for j, slot := range day.Slots {
			y := float64(headerHeight + j*rowHeight)
			if i == 0 {
				dc.SetColor(labelColor)
				dc.DrawStringAnchored(SlotLabel(slot.Time), leftLabelsWidth-8, y+rowHeight/2, 1, 0.5)
			}
			drawCell(dc, x, y, slot.Count, participants, top > 0 && slot.Count == top)
		}
	}

	dc.SetColor(labelColor)
	dc.DrawStringAnchored(strconv.Itoa(participants)+" participants", 8, float64(height-footerHeight/2), 0, 0.5)

	return encodeImage(dc)
}

func drawColumn(dc *gg.Context, index int, x float64, rows int) {
	if index%2 == 0 {
		dc.SetColor(evenColumn)
	} else {
		dc.SetColor(oddColumn)
	}
	dc.DrawRectangle(x, headerHeight, columnWidth, float64(rows*rowHeight))
	dc.Fill()
}

func drawCell(dc *gg.Context, x, y float64, count, total int, best bool) {
	fill := shade(count, total)

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+cellPadding, y+cellPadding, columnWidth-2*cellPadding, rowHeight-2*cellPadding, cellRadius)
	dc.Fill()

	if best {
		dc.SetColor(bestCellColor)
		dc.SetLineWidth(2)
	} else {
		dc.SetColor(darkenColor(fill, 0.8))
		dc.SetLineWidth(1)
	}
	dc.DrawRoundedRectangle(x+cellPadding, y+cellPadding, columnWidth-2*cellPadding, rowHeight-2*cellPadding, cellRadius)
	dc.Stroke()

	if count > 0 {
		dc.SetColor(cellTextColor)
		dc.DrawStringAnchored(strconv.Itoa(count), x+columnWidth/2, y+rowHeight/2, 0.5, 0.5)
	}
}

// shade blends from the empty to the full cell color by count/total
func shade(count, total int) color.RGBA {
	if total <= 0 || count <= 0 {
		return emptyCellColor
	}
	f := float64(count) / float64(total)
	if f > 1 {
		f = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*f)
	}
	return color.RGBA{
		R: mix(emptyCellColor.R, fullCellColor.R),
		G: mix(emptyCellColor.G, fullCellColor.G),
		B: mix(emptyCellColor.B, fullCellColor.B),
		A: mix(emptyCellColor.A, fullCellColor.A),
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
