// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kenzydocs/docchat-tui/internal/model"
	"github.com/kenzydocs/docchat-tui/internal/ui/styles"
	"github.com/kenzydocs/docchat-tui/internal/util"
)

// =============================================================================
// DOCUMENT LIST COMPONENT - Library panel with confirm-gated delete
// =============================================================================

// DocList renders the document library with keyboard selection.
type DocList struct {
	docs     []model.DocumentRecord
	selected int
	Width    int
	Height   int
	theme    *styles.Theme
}

// NewDocList creates an empty document list.
func NewDocList(theme *styles.Theme) *DocList {
	return &DocList{
		Width:  80,
		Height: 20,
		theme:  theme,
	}
}

// SetSize updates the panel dimensions.
func (d *DocList) SetSize(width, height int) {
	d.Width = width
	d.Height = height
}

// SetDocuments swaps in the current roster view, clamping the
// selection.
func (d *DocList) SetDocuments(docs []model.DocumentRecord) {
	d.docs = docs
	if d.selected >= len(docs) {
		d.selected = len(docs) - 1
	}
	if d.selected < 0 {
		d.selected = 0
	}
}

// Count returns the number of listed documents.
func (d *DocList) Count() int {
	return len(d.docs)
}

// Selected returns the highlighted document.
func (d *DocList) Selected() (model.DocumentRecord, bool) {
	if len(d.docs) == 0 {
		return model.DocumentRecord{}, false
	}
	return d.docs[d.selected], true
}

// MoveUp moves the selection up one row.
func (d *DocList) MoveUp() {
	if d.selected > 0 {
		d.selected--
	}
}

// MoveDown moves the selection down one row.
func (d *DocList) MoveDown() {
	if d.selected < len(d.docs)-1 {
		d.selected++
	}
}

// View renders the library panel.
func (d *DocList) View() string {
	title := d.theme.DocName.Render("Documents") + " " +
		d.theme.DocMeta.Render("("+formatDocCount(len(d.docs))+")")

	if len(d.docs) == 0 {
		empty := d.theme.DocMeta.Render("No documents indexed yet. Press ^U to upload.")
		return d.theme.DocList.Width(d.Width - 4).Render(title + "\n\n" + empty)
	}

	rows := []string{title, ""}

	// Scroll window around the selection.
	visible := d.Height - 6
	if visible < 3 {
		visible = 3
	}
	start := 0
	if d.selected >= visible {
		start = d.selected - visible + 1
	}
	end := start + visible
	if end > len(d.docs) {
		end = len(d.docs)
	}

	for i := start; i < end; i++ {
		rows = append(rows, d.renderRow(i))
	}

	hint := d.theme.DocMeta.Render("up/down select  [d] delete  [r] refresh  [esc] close")
	rows = append(rows, "", hint)

	return d.theme.DocList.Width(d.Width - 4).Render(strings.Join(rows, "\n"))
}

// renderRow renders one document line: kind badge, name, size, age.
func (d *DocList) renderRow(i int) string {
	doc := d.docs[i]

	kind := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Bold(true).
		Width(6).
		Render(doc.DisplayKind())

	nameWidth := d.Width - 36
	if nameWidth < 12 {
		nameWidth = 12
	}
	name := util.PadRight(util.TruncateWidth(doc.Name, nameWidth), nameWidth)

	meta := d.theme.DocMeta.Render(
		util.PadRight(util.FormatFileSize(doc.Size), 10) +
			util.FormatRelativeTime(doc.IngestedAt()))

	row := kind + " " + name + " " + meta

	if i == d.selected {
		return d.theme.DocItemSelected.Render(row)
	}
	return d.theme.DocItem.Render(row)
}

// =============================================================================
// DELETE CONFIRMATION
// =============================================================================

// RenderDeleteConfirm renders the confirmation dialog for a pending
// delete. confirmSelected marks which button is highlighted.
func (d *DocList) RenderDeleteConfirm(doc model.DocumentRecord, confirmSelected bool) string {
	title := d.theme.ConfirmTitle.Render("Delete document?")

	name := d.theme.DocName.Render(util.TruncateWidth(doc.Name, 40))
	detail := d.theme.DocMeta.Render(
		doc.DisplayKind() + ", " + util.FormatFileSize(doc.Size))

	warning := d.theme.DocMeta.Render("This removes it from the library permanently.")

	var yes, no string
	if confirmSelected {
		yes = d.theme.ConfirmButtonActive.Render("Delete")
		no = d.theme.ConfirmButton.Render("Cancel")
	} else {
		yes = d.theme.ConfirmButton.Render("Delete")
		no = d.theme.ConfirmButtonActive.Render("Cancel")
	}
	buttons := yes + " " + no

	content := strings.Join([]string{title, "", name, detail, "", warning, "", buttons}, "\n")

	return d.theme.ConfirmBox.Render(content)
}
