package model

import (
	"fmt"
	"strings"
)

const (
	labelIDPrefix = "ID: "
	labelNameSep  = ", 商品名: "
)

// LabelText is the payload printed into a record's QR label.
func LabelText(r InventoryRecord) string {
	return fmt.Sprintf("ID: %s, 商品名: %s, カテゴリ: %s, 数量: %d, 保管場所: %s",
		r.ID, r.Name, r.Category, r.Quantity, NormalizeLabel(r.Location))
}

// LabelID extracts the id from a payload produced by LabelText.
func LabelID(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, labelIDPrefix) {
		return "", false
	}
	rest := text[len(labelIDPrefix):]
	if i := strings.Index(rest, labelNameSep); i >= 0 {
		rest = rest[:i]
	} else if i := strings.IndexByte(rest, ','); i >= 0 {
		rest = rest[:i]
	}
	id := strings.TrimSpace(rest)
	return id, id != ""
}
