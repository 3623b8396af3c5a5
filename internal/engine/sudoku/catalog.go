package sudoku

// The fixed puzzle/solution pairs carried over from the legacy generator.
// Solutions are only guaranteed to agree with their puzzle at the given
// cells; completion checking compares against these grids verbatim.
var catalog = []PuzzlePair{
	{
		Puzzle: Grid{
			{5, 3, 0, 0, 7, 0, 0, 0, 0},
			{6, 0, 0, 1, 9, 5, 0, 0, 0},
			{0, 9, 8, 0, 0, 0, 0, 6, 0},
			{8, 0, 0, 0, 6, 0, 0, 0, 3},
			{4, 0, 0, 8, 0, 3, 0, 0, 1},
			{7, 0, 0, 0, 2, 0, 0, 0, 6},
			{0, 6, 0, 0, 0, 0, 2, 8, 0},
			{0, 0, 0, 4, 1, 9, 0, 0, 5},
			{0, 0, 0, 0, 8, 0, 0, 7, 9},
		},
		Solution: Grid{
			{5, 3, 4, 6, 7, 8, 9, 1, 2},
			{6, 7, 2, 1, 9, 5, 3, 4, 8},
			{1, 9, 8, 3, 4, 2, 5, 6, 7},
			{8, 5, 9, 7, 6, 1, 4, 2, 3},
			{4, 2, 6, 8, 5, 3, 7, 9, 1},
			{7, 1, 3, 9, 2, 4, 8, 5, 6},
			{9, 6, 1, 5, 3, 7, 2, 8, 4},
			{2, 8, 7, 4, 1, 9, 6, 3, 5},
			{3, 4, 5, 2, 8, 6, 1, 7, 9},
		},
	},
	{
		Puzzle: Grid{
			{0, 2, 0, 6, 0, 8, 0, 0, 0},
			{5, 8, 0, 0, 0, 9, 7, 0, 0},
			{0, 0, 0, 0, 4, 0, 0, 0, 0},
			{3, 7, 0, 0, 0, 0, 5, 0, 0},
			{6, 0, 0, 0, 0, 0, 0, 0, 4},
			{0, 0, 8, 0, 0, 0, 0, 1, 3},
			{0, 0, 0, 0, 2, 0, 0, 0, 0},
			{0, 0, 9, 8, 0, 0, 0, 3, 6},
			{0, 0, 0, 3, 0, 6, 0, 9, 0},
		},
		Solution: Grid{
			{1, 2, 3, 6, 7, 8, 9, 4, 5},
			{5, 8, 4, 2, 3, 9, 7, 6, 1},
			{9, 6, 7, 1, 4, 5, 3, 2, 8},
			{3, 7, 2, 4, 6, 1, 5, 8, 9},
			{6, 1, 5, 9, 8, 3, 2, 7, 4},
			{4, 9, 8, 5, 2, 7, 6, 1, 3},
			{8, 3, 6, 7, 2, 4, 1, 5, 9},
			{2, 4, 9, 8, 1, 5, 4, 3, 6},
			{7, 5, 1, 3, 9, 6, 8, 9, 2},
		},
	},
	{
		Puzzle: Grid{
			{0, 0, 0, 0, 0, 0, 6, 8, 0},
			{0, 0, 0, 0, 0, 3, 0, 0, 0},
			{7, 0, 0, 0, 9, 0, 5, 0, 0},
			{5, 7, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 8, 5, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 1, 9},
			{0, 0, 4, 0, 0, 0, 0, 0, 2},
			{0, 0, 0, 0, 3, 0, 0, 0, 0},
			{0, 9, 0, 0, 0, 0, 0, 0, 0},
		},
		Solution: Grid{
			{1, 5, 9, 7, 4, 2, 6, 8, 3},
			{8, 6, 2, 1, 5, 3, 9, 4, 7},
			{7, 3, 4, 6, 9, 8, 5, 2, 1},
			{5, 7, 1, 3, 2, 9, 4, 6, 8},
			{9, 4, 3, 5, 8, 5, 7, 3, 6},
			{6, 2, 8, 4, 7, 6, 3, 1, 9},
			{3, 8, 4, 9, 6, 7, 1, 5, 2},
			{4, 1, 7, 2, 3, 5, 8, 9, 6},
			{2, 9, 6, 8, 1, 4, 3, 7, 5},
		},
	},
}
