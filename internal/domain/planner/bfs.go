// Package planner finds hop-count shortest paths over a world's passable
// cells and turns them into move commands.
package planner

import "promptworld/internal/domain/world"

// Graph is the view of a world the planner needs.
type Graph interface {
	Player() world.Point
	Goal() world.Point
	Passable(p world.Point) bool
}

// neighbour order is fixed so ties break the same way on every run.
var dirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Plan runs a breadth-first search from the player to the goal. Terrain cost
// is ignored. The returned path includes both ends; ok is false when the goal
// is unreachable.
func Plan(g Graph) ([]world.Point, bool) {
	start, goal := g.Player(), g.Goal()
	prev := map[world.Point]world.Point{}
	visited := map[world.Point]bool{start: true}
	queue := []world.Point{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			break
		}
		for _, d := range dirs {
			next := cur.Add(d[0], d[1])
			if visited[next] || !g.Passable(next) {
				continue
			}
			visited[next] = true
			prev[next] = cur
			queue = append(queue, next)
		}
	}
	if !visited[goal] {
		return nil, false
	}

	path := []world.Point{goal}
	for cur := goal; cur != start; {
		cur = prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}
