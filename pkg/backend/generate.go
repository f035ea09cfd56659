package backend

import (
	"context"

	"github.com/pulsekit/go-studio/components/generate"
)

// GenerateScript implements generate.Generator.
func (c *Client) GenerateScript(ctx context.Context, req generate.ScriptRequest) (generate.ScriptResult, error) {
	var result generate.ScriptResult
	if err := c.post(ctx, "/api/generate-script", req, &result); err != nil {
		return generate.ScriptResult{}, err
	}
	return result, nil
}

// GenerateTitleTags implements generate.Generator.
func (c *Client) GenerateTitleTags(ctx context.Context, req generate.TitleTagsRequest) (generate.TitleTagsResult, error) {
	var result generate.TitleTagsResult
	if err := c.post(ctx, "/api/generate-titles", req, &result); err != nil {
		return generate.TitleTagsResult{}, err
	}
	return result, nil
}

// AnalyzeKeyword implements generate.Generator.
func (c *Client) AnalyzeKeyword(ctx context.Context, keyword string) (generate.KeywordAnalysis, error) {
	payload := map[string]any{"keyword": keyword}
	var analysis generate.KeywordAnalysis
	if err := c.post(ctx, "/api/generate-keyword-analysis", payload, &analysis); err != nil {
		return generate.KeywordAnalysis{}, err
	}
	return analysis, nil
}

// FindTrends implements generate.Generator.
func (c *Client) FindTrends(ctx context.Context, req generate.TrendRequest) ([]generate.Trend, error) {
	var trends []generate.Trend
	if err := c.post(ctx, "/api/generate-trends", req, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

// UploadReference uploads supporting material for generation, for example a
// thumbnail or transcript, and returns the server's handle for it.
func (c *Client) UploadReference(ctx context.Context, filename string, content []byte) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.upload(ctx, "/api/upload-reference", "file", filename, content, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
