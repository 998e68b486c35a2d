package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/idilsaglam/cusrr/internal/model"
)

const blocksPath = "/api/v1/block-schedule"

func blockPath(id int) string { return blocksPath + "/" + strconv.Itoa(id) }

// ListBlocks lists schedule blocks, optionally restricted to block types.
func (c *Client) ListBlocks(ctx context.Context, types ...string) ([]model.Block, error) {
	var q url.Values
	if len(types) > 0 {
		q = url.Values{"types": {strings.Join(types, ",")}}
	}
	var out []model.Block
	if err := c.GetJSON(ctx, blocksPath+"/", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BlocksByDay(ctx context.Context, day string) ([]model.Block, error) {
	var out []model.Block
	if err := c.GetJSON(ctx, blocksPath+"/day/"+url.PathEscape(day), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBlock(ctx context.Context, id int) (model.Block, error) {
	var out model.Block
	err := c.GetJSON(ctx, blockPath(id), nil, &out)
	return out, err
}

func (c *Client) UpdateBlock(ctx context.Context, id int, fields map[string]any) (model.Block, error) {
	var out model.Block
	err := c.PutJSON(ctx, blockPath(id), fields, &out)
	return out, err
}
