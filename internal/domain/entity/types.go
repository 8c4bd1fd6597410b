package entity

// TileCoord is the tileset column/row drawn in a tilemap cell
type TileCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// EmptyTile marks a cell with nothing drawn in it
var EmptyTile = TileCoord{X: -1, Y: -1}

// IsEmpty reports whether the cell draws nothing
func (c TileCoord) IsEmpty() bool {
	return c.X < 0 || c.Y < 0
}

// SceneDescriptor is the static shape of a scene
//
// Tilemap is indexed [y][x]. Width and Height are pixel sizes derived from
// the counts and TileSize. The lifecycle manager never mutates a descriptor;
// dev tooling may resize it in place.
type SceneDescriptor struct {
	Name     string
	Tileset  string
	Tilemap  [][]TileCoord
	XCount   int
	YCount   int
	Width    int
	Height   int
	TileSize int
}

// NewSceneDescriptor creates a descriptor with an empty xCount by yCount tilemap
func NewSceneDescriptor(name, tileset string, xCount, yCount, tileSize int) *SceneDescriptor {
	d := &SceneDescriptor{
		Name:     name,
		Tileset:  tileset,
		TileSize: tileSize,
	}
	d.Resize(xCount, yCount)
	return d
}

// Tile returns the cell at the given tile coordinates
func (d *SceneDescriptor) Tile(x, y int) TileCoord {
	if y < 0 || y >= len(d.Tilemap) || x < 0 || x >= len(d.Tilemap[y]) {
		return EmptyTile
	}
	return d.Tilemap[y][x]
}

// SetTile writes a cell; out of range writes are ignored
func (d *SceneDescriptor) SetTile(x, y int, c TileCoord) bool {
	if y < 0 || y >= len(d.Tilemap) || x < 0 || x >= len(d.Tilemap[y]) {
		return false
	}
	d.Tilemap[y][x] = c
	return true
}

// TileAtPixel returns the cell under the given pixel coordinates
func (d *SceneDescriptor) TileAtPixel(px, py int) TileCoord {
	if d.TileSize <= 0 || px < 0 || py < 0 {
		return EmptyTile
	}
	return d.Tile(px/d.TileSize, py/d.TileSize)
}

// Resize truncates or pads the tilemap to xCount by yCount, keeping
// existing cells, and recomputes the pixel size.
func (d *SceneDescriptor) Resize(xCount, yCount int) {
	if xCount < 0 {
		xCount = 0
	}
	if yCount < 0 {
		yCount = 0
	}

	if len(d.Tilemap) > yCount {
		d.Tilemap = d.Tilemap[:yCount]
	}
	for len(d.Tilemap) < yCount {
		d.Tilemap = append(d.Tilemap, nil)
	}

	for y, row := range d.Tilemap {
		if len(row) > xCount {
			row = row[:xCount]
		}
		for len(row) < xCount {
			row = append(row, EmptyTile)
		}
		d.Tilemap[y] = row
	}

	d.XCount = xCount
	d.YCount = yCount
	d.Width = xCount * d.TileSize
	d.Height = yCount * d.TileSize
}

// Clone returns a deep copy
func (d *SceneDescriptor) Clone() *SceneDescriptor {
	c := *d
	c.Tilemap = make([][]TileCoord, len(d.Tilemap))
	for y, row := range d.Tilemap {
		c.Tilemap[y] = append([]TileCoord(nil), row...)
	}
	return &c
}
