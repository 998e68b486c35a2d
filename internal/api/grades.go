package api

import (
	"context"
	"strconv"

	"github.com/idilsaglam/cusrr/internal/model"
)

const abstractGradesPath = "/api/v1/abstractgrades"

// CompletedAbstracts returns the ids of presentations userID already graded.
func (c *Client) CompletedAbstracts(ctx context.Context, userID int) ([]int, error) {
	var out struct {
		Completed []int `json:"completed"`
	}
	if err := c.GetJSON(ctx, abstractGradesPath+"/completed/"+strconv.Itoa(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Completed, nil
}

func (c *Client) SubmitAbstractGrade(ctx context.Context, g model.AbstractGrade) error {
	return c.postJSON(ctx, abstractGradesPath, g, nil)
}

func (c *Client) GradeAverages(ctx context.Context) ([]model.AverageGrade, error) {
	var out []model.AverageGrade
	if err := c.GetJSON(ctx, "/api/v1/grades/averages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AbstractGradeAverages(ctx context.Context) ([]model.AverageGrade, error) {
	var out []model.AverageGrade
	if err := c.GetJSON(ctx, abstractGradesPath+"/averages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
