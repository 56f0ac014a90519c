package router

import (
	"encoding/json"
	"strconv"

	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/julienschmidt/httprouter"
	"github.com/pathlab/routecompare/pkg/http/router/controllers"
	"go.uber.org/zap"
)

const visitedBatchSize = 256

type visitedFrame struct {
	Seq      int      `json:"seq"`
	NodeIds  []string `json:"node_ids"`
	Done     bool     `json:"done"`
	Distance float64  `json:"distance_meters,omitempty"`
}

// visitedStream upgrades to websocket, runs the requested search, and
// streams the visited node ids in order, batched. frontends replay the
// frames as an exploration overlay animation. one goroutine per connection.
func (api *API) visitedStream(routingService controllers.RoutingService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			api.log.Error("websocket upgrade failed", zap.Error(err))
			return
		}

		query := r.URL.Query()
		algorithm := query.Get("algorithm")
		if algorithm == "" {
			algorithm = "dijkstra"
		}

		go func() {
			defer conn.Close()

			parse := func(key string) (float64, bool) {
				v, err := strconv.ParseFloat(query.Get(key), 64)
				return v, err == nil
			}
			origLat, ok1 := parse("origin_lat")
			origLon, ok2 := parse("origin_lon")
			dstLat, ok3 := parse("destination_lat")
			dstLon, ok4 := parse("destination_lon")
			if !(ok1 && ok2 && ok3 && ok4) {
				_ = wsutil.WriteServerText(conn, []byte(`{"error":"origin/destination coordinates are required"}`))
				return
			}

			result, _, err := routingService.Route(algorithm, origLat, origLon, dstLat, dstLon)
			if err != nil {
				msg, _ := json.Marshal(map[string]string{"error": err.Error()})
				_ = wsutil.WriteServerText(conn, msg)
				return
			}

			seq := 0
			visited := result.VisitedNodeIds
			for start := 0; start < len(visited); start += visitedBatchSize {
				end := start + visitedBatchSize
				if end > len(visited) {
					end = len(visited)
				}
				frame := visitedFrame{Seq: seq, NodeIds: visited[start:end]}
				payload, _ := json.Marshal(frame)
				if err := wsutil.WriteServerText(conn, payload); err != nil {
					return
				}
				seq++
			}

			final := visitedFrame{Seq: seq, Done: true, Distance: result.TotalDistanceMeters}
			payload, _ := json.Marshal(final)
			_ = wsutil.WriteServerText(conn, payload)
		}()
	}
}
