// Lambda entrypoint: runs the daily fetch when triggered on a schedule.
package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"

	"StockVault/internal/cli"
	"StockVault/internal/pipeline"
)

// Response summarizes one scheduled invocation for CloudWatch.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Results    map[string]string `json:"results"`
	Elapsed    string            `json:"elapsed"`
}

func handler(ctx context.Context) (Response, error) {
	app, err := cli.Setup(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("setup: %w", err)
	}
	defer app.Close()

	summary := app.Runner.Run(ctx, app.Cfg.Symbols, pipeline.ModeDaily)

	results := make(map[string]string, len(summary.Results))
	for _, res := range summary.Results {
		results[res.Symbol] = string(res.Outcome)
	}

	resp := Response{
		StatusCode: 200,
		Results:    results,
		Elapsed:    summary.Elapsed.String(),
	}
	if summary.Failed() {
		resp.StatusCode = 500
	}
	return resp, nil
}

func main() {
	lambda.Start(handler)
}
