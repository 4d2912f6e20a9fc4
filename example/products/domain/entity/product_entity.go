package entity

import "time"

// Product は商品カタログワークブックの1行から生成されるエンティティです。
type Product struct {
	SKU       string
	Name      string
	Price     float64
	SheetName string // 由来するシート名
	RowIndex  int    // 由来する行インデックス (0 始まり)
}

// ProductToStore はデータベースへ保存する形の商品データです。
type ProductToStore struct {
	SKU         string
	Name        string
	Price       float64
	SheetName   string
	RowIndex    int
	CollectedAt time.Time
}
