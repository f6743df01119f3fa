package game

import (
	"fmt"
	"sort"
	"sync"
)

type (
	TileID int
	NodeID int
	EdgeID int
)

const (
	NoTile TileID = -1
	NoNode NodeID = -1
	NoEdge EdgeID = -1
)

// Hex is an axial coordinate on a pointy-top hex grid. The third cube
// coordinate is derived: S = -Q - R.
type Hex struct {
	Q int
	R int
}

func (h Hex) S() int {
	return -h.Q - h.R
}

func (h Hex) Add(other Hex) Hex {
	return Hex{Q: h.Q + other.Q, R: h.R + other.R}
}

func (h Hex) less(other Hex) bool {
	if h.Q != other.Q {
		return h.Q < other.Q
	}
	return h.R < other.R
}

// Side names one of the six sides of a tile, clockwise from the north-east.
type Side int

const (
	NorthEastSide Side = iota
	EastSide
	SouthEastSide
	SouthWestSide
	WestSide
	NorthWestSide
)

// Corner names one of the six corners of a tile, clockwise from the north.
// Corner k sits between sides k-1 and k, side k runs from corner k to k+1.
type Corner int

const (
	NorthCorner Corner = iota
	NorthEastCorner
	SouthEastCorner
	SouthCorner
	SouthWestCorner
	NorthWestCorner
)

// Neighbor offsets indexed by Side
var sideOffsets = [6]Hex{
	{Q: 1, R: -1}, // North-east
	{Q: 1, R: 0},  // East
	{Q: 0, R: 1},  // South-east
	{Q: -1, R: 1}, // South-west
	{Q: -1, R: 0}, // West
	{Q: 0, R: -1}, // North-west
}

// A corner is shared by exactly three hexes (some possibly off the board) and
// a side by exactly two, so the sorted hexes are a canonical identity.
type nodeKey [3]Hex
type edgeKey [2]Hex

func cornerKey(h Hex, c Corner) nodeKey {
	k := nodeKey{h, h.Add(sideOffsets[(int(c)+5)%6]), h.Add(sideOffsets[c])}
	sort.Slice(k[:], func(i, j int) bool { return k[i].less(k[j]) })
	return k
}

func sideKey(h Hex, s Side) edgeKey {
	other := h.Add(sideOffsets[s])
	if other.less(h) {
		return edgeKey{other, h}
	}
	return edgeKey{h, other}
}

// Topology is the static adjacency of tiles, nodes and edges. It is built once
// and never mutated, so every state and search branch shares one copy.
type Topology struct {
	Radius        int
	Hexes         []Hex         // Indexed by TileID
	TileNodes     [][6]NodeID   // Indexed by TileID, in Corner order
	TileEdges     [][6]EdgeID   // Indexed by TileID, in Side order
	NodeTiles     [][]TileID    // On-board tiles touching each node
	NodeEdges     [][]EdgeID    // Edges incident to each node
	NodeNeighbors [][]NodeID    // Nodes one edge away
	EdgeNodes     [][2]NodeID   // Endpoints of each edge
	EdgeTiles     [][]TileID    // On-board tiles bordering each edge
	tileIndex     map[Hex]TileID
	nodeIndex     map[nodeKey]NodeID
	edgeIndex     map[edgeKey]EdgeID
}

var standardTopology = sync.OnceValue(func() *Topology {
	return NewTopology(2)
})

// StandardTopology returns the shared 19-tile topology.
func StandardTopology() *Topology {
	return standardTopology()
}

// NewTopology builds a hexagon-shaped board of the given radius. Ids are
// assigned in first-seen order: tiles row by row, then corners and sides of
// each tile clockwise.
func NewTopology(radius int) *Topology {
	t := &Topology{
		Radius:    radius,
		tileIndex: make(map[Hex]TileID),
		nodeIndex: make(map[nodeKey]NodeID),
		edgeIndex: make(map[edgeKey]EdgeID),
	}

	for r := -radius; r <= radius; r++ {
		for q := max(-radius, -r-radius); q <= min(radius, -r+radius); q++ {
			h := Hex{Q: q, R: r}
			t.tileIndex[h] = TileID(len(t.Hexes))
			t.Hexes = append(t.Hexes, h)
		}
	}

	t.TileNodes = make([][6]NodeID, len(t.Hexes))
	t.TileEdges = make([][6]EdgeID, len(t.Hexes))
	for tile, h := range t.Hexes {
		for c := NorthCorner; c <= NorthWestCorner; c++ {
			t.TileNodes[tile][c] = t.addNode(cornerKey(h, c), TileID(tile))
		}
		for s := NorthEastSide; s <= NorthWestSide; s++ {
			a := t.TileNodes[tile][s]
			b := t.TileNodes[tile][(int(s)+1)%6]
			t.TileEdges[tile][s] = t.addEdge(sideKey(h, s), TileID(tile), a, b)
		}
	}
	return t
}

func (t *Topology) addNode(key nodeKey, tile TileID) NodeID {
	id, ok := t.nodeIndex[key]
	if !ok {
		id = NodeID(len(t.NodeTiles))
		t.nodeIndex[key] = id
		t.NodeTiles = append(t.NodeTiles, nil)
		t.NodeEdges = append(t.NodeEdges, nil)
		t.NodeNeighbors = append(t.NodeNeighbors, nil)
	}
	t.NodeTiles[id] = append(t.NodeTiles[id], tile)
	return id
}

func (t *Topology) addEdge(key edgeKey, tile TileID, a, b NodeID) EdgeID {
	id, ok := t.edgeIndex[key]
	if !ok {
		id = EdgeID(len(t.EdgeNodes))
		t.edgeIndex[key] = id
		t.EdgeNodes = append(t.EdgeNodes, [2]NodeID{a, b})
		t.EdgeTiles = append(t.EdgeTiles, nil)
		t.NodeEdges[a] = append(t.NodeEdges[a], id)
		t.NodeEdges[b] = append(t.NodeEdges[b], id)
		t.NodeNeighbors[a] = append(t.NodeNeighbors[a], b)
		t.NodeNeighbors[b] = append(t.NodeNeighbors[b], a)
	}
	t.EdgeTiles[id] = append(t.EdgeTiles[id], tile)
	return id
}

func (t *Topology) NumTiles() int { return len(t.Hexes) }
func (t *Topology) NumNodes() int { return len(t.NodeTiles) }
func (t *Topology) NumEdges() int { return len(t.EdgeNodes) }

// TileAt returns the tile at the given coordinate, if it is on the board.
func (t *Topology) TileAt(h Hex) (TileID, bool) {
	id, ok := t.tileIndex[h]
	return id, ok
}

// Node returns the node at a corner of an on-board tile.
func (t *Topology) Node(h Hex, c Corner) NodeID {
	id, ok := t.nodeIndex[cornerKey(h, c)]
	if !ok {
		return NoNode
	}
	return id
}

// Edge returns the edge along a side of an on-board tile.
func (t *Topology) Edge(h Hex, s Side) EdgeID {
	id, ok := t.edgeIndex[sideKey(h, s)]
	if !ok {
		return NoEdge
	}
	return id
}

// Between returns the edge joining two adjacent nodes.
func (t *Topology) Between(a, b NodeID) (EdgeID, bool) {
	for _, e := range t.NodeEdges[a] {
		if t.Other(e, a) == b {
			return e, true
		}
	}
	return NoEdge, false
}

// Other returns the endpoint of e that is not n.
func (t *Topology) Other(e EdgeID, n NodeID) NodeID {
	ends := t.EdgeNodes[e]
	if ends[0] == n {
		return ends[1]
	}
	return ends[0]
}

// AdjacentEdges lists the edges sharing an endpoint with e.
func (t *Topology) AdjacentEdges(e EdgeID) []EdgeID {
	var edges []EdgeID
	for _, n := range t.EdgeNodes[e] {
		for _, other := range t.NodeEdges[n] {
			if other != e {
				edges = append(edges, other)
			}
		}
	}
	return edges
}

type Tile struct {
	ID       TileID
	Hex      Hex
	Resource Resource
	Number   int // Production token, 0 for the desert
}

// Map represents the game board: the shared topology plus the immutable tile layout.
type Map struct {
	Topology *Topology
	Tiles    []Tile // Indexed by TileID
	Desert   TileID // Where the robber starts
}

// NewMap checks a tile layout against its topology.
func NewMap(topology *Topology, tiles []Tile) (*Map, error) {
	if len(tiles) != topology.NumTiles() {
		return nil, NewConfigurationError("tiles", "expected %d tiles, got %d", topology.NumTiles(), len(tiles))
	}
	m := &Map{Topology: topology, Tiles: tiles, Desert: NoTile}
	for i, tile := range tiles {
		if tile.ID != TileID(i) {
			return nil, NewConfigurationError("tiles", "tile %d has id %d", i, tile.ID)
		}
		switch {
		case tile.Resource == Desert:
			if tile.Number != 0 {
				return nil, NewConfigurationError("tiles", "desert tile %d has number %d", i, tile.Number)
			}
			if m.Desert == NoTile {
				m.Desert = tile.ID
			}
		case tile.Resource < 0 || tile.Resource > Ore:
			return nil, NewConfigurationError("tiles", "tile %d has unknown resource %d", i, tile.Resource)
		case tile.Number < 2 || tile.Number > 12 || tile.Number == 7:
			return nil, NewConfigurationError("tiles", "tile %d has invalid number %d", i, tile.Number)
		}
	}
	if m.Desert == NoTile {
		m.Desert = 0
	}
	return m, nil
}

// Probability returns the chance that two dice sum to number.
func Probability(number int) float64 {
	if number < 2 || number > 12 || number == 7 {
		return 0
	}
	ways := 6 - abs(7-number)
	return float64(ways) / 36
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (m *Map) String() string {
	return fmt.Sprintf("Map{tiles: %d, nodes: %d, edges: %d}", m.Topology.NumTiles(), m.Topology.NumNodes(), m.Topology.NumEdges())
}
