package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/wheelibin/ambience/internal/models"
)

func (c *Client) GetLights(ctx context.Context) ([]models.Light, error) {
	body, err := c.GET(ctx, "/lights")
	if err != nil {
		return nil, fmt.Errorf("error reading lights from hue bridge: %w", err)
	}
	if isResultList(body) {
		return nil, checkResults(body)
	}

	respBody := LightsResponse{}
	if err := json.Unmarshal(body, &respBody); err != nil {
		return nil, fmt.Errorf("error parsing lights response: %w", err)
	}

	lights := lo.MapToSlice(respBody, func(id string, l HueLight) models.Light {
		return l.toModel(id)
	})
	sort.Slice(lights, func(i, j int) bool { return lessID(lights[i].ID, lights[j].ID) })

	return lights, nil
}

func (c *Client) GetRooms(ctx context.Context) ([]models.Room, error) {
	body, err := c.GET(ctx, "/groups")
	if err != nil {
		return nil, fmt.Errorf("error reading groups from hue bridge: %w", err)
	}
	if isResultList(body) {
		return nil, checkResults(body)
	}

	respBody := GroupsResponse{}
	if err := json.Unmarshal(body, &respBody); err != nil {
		return nil, fmt.Errorf("error parsing groups response: %w", err)
	}

	rooms := lo.FilterMap(lo.Keys(respBody), func(id string, _ int) (models.Room, bool) {
		g := respBody[id]
		return g.toModel(id), g.isRoomOrZone()
	})
	sort.Slice(rooms, func(i, j int) bool { return lessID(rooms[i].ID, rooms[j].ID) })

	return rooms, nil
}

// FetchLightsAndRooms reads the authoritative state of every light and room
func (c *Client) FetchLightsAndRooms(ctx context.Context) ([]models.Light, []models.Room, error) {
	lights, err := c.GetLights(ctx)
	if err != nil {
		return nil, nil, err
	}
	rooms, err := c.GetRooms(ctx)
	if err != nil {
		return nil, nil, err
	}
	return lights, rooms, nil
}

// ApplyLightConfig sends every command in the patch. Each light and group is its own request,
// a rejected one does not stop the others.
func (c *Client) ApplyLightConfig(ctx context.Context, patch models.LightConfigPatch) error {
	jobs := []func(ctx context.Context) error{}

	for _, id := range sortedKeys(patch.Groups) {
		jobs = append(jobs, c.putJob(fmt.Sprintf("/groups/%s/action", id), patch.Groups[id]))
	}
	for _, id := range sortedKeys(patch.Lights) {
		jobs = append(jobs, c.putJob(fmt.Sprintf("/lights/%s/state", id), patch.Lights[id]))
	}

	return c.worker.Run(ctx, jobs)
}

func (c *Client) putJob(path string, cmd models.LightCommand) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		data, err := json.Marshal(cmd)
		if err != nil {
			return err
		}
		c.logger.Debug("PUT", "path", path, "command", string(data))

		body, err := c.do(ctx, http.MethodPut, path, data)
		if err != nil {
			return err
		}
		return checkResults(body)
	}
}

func sortedKeys(m map[string]models.LightCommand) []string {
	keys := lo.Keys(m)
	sort.Slice(keys, func(i, j int) bool { return lessID(keys[i], keys[j]) })
	return keys
}

// bridge ids are numeric strings, order them numerically when possible
func lessID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

func isResultList(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}
