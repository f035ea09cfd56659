package backend

import (
	"context"
	"fmt"

	"github.com/pulsekit/go-studio/components/replyassist"
)

// FetchLists implements replyassist.ListRepository.
func (c *Client) FetchLists(ctx context.Context) ([]replyassist.List, error) {
	var lists []replyassist.List
	if err := c.get(ctx, "/reply-guy/lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// StartListAnalysis implements replyassist.ListRepository.
func (c *Client) StartListAnalysis(ctx context.Context, listID string) error {
	path := fmt.Sprintf("/reply-guy/lists/%s/analyze", listID)
	return c.post(ctx, path, nil, nil)
}

// AnalysisStatus implements replyassist.ListRepository.
func (c *Client) AnalysisStatus(ctx context.Context, listID string) (replyassist.UpdateStatus, error) {
	var resp struct {
		Status replyassist.UpdateStatus `json:"status"`
	}
	path := fmt.Sprintf("/reply-guy/lists/%s/status", listID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// FetchOpportunities implements replyassist.ListRepository.
func (c *Client) FetchOpportunities(ctx context.Context, listID string) ([]replyassist.Opportunity, error) {
	var opportunities []replyassist.Opportunity
	path := fmt.Sprintf("/reply-guy/lists/%s/opportunities", listID)
	if err := c.get(ctx, path, nil, &opportunities); err != nil {
		return nil, err
	}
	return opportunities, nil
}

// GenerateReply implements replyassist.ReplyGenerator.
func (c *Client) GenerateReply(ctx context.Context, opportunityID string, brandVoice bool) (replyassist.GeneratedReply, error) {
	payload := map[string]any{
		"opportunity_id": opportunityID,
		"brand_voice":    brandVoice,
	}
	var reply replyassist.GeneratedReply
	if err := c.post(ctx, "/reply-guy/generate", payload, &reply); err != nil {
		return replyassist.GeneratedReply{}, err
	}
	return reply, nil
}

// SearchGIFs implements replyassist.GIFClient.
func (c *Client) SearchGIFs(ctx context.Context, query string) ([]replyassist.GIF, error) {
	payload := map[string]any{"query": query}
	var gifs []replyassist.GIF
	if err := c.post(ctx, "/reply-guy/gifs/search", payload, &gifs); err != nil {
		return nil, err
	}
	return gifs, nil
}

// DownloadGIF implements replyassist.GIFClient.
func (c *Client) DownloadGIF(ctx context.Context, gif replyassist.GIF) ([]byte, error) {
	return c.download(ctx, gif.URL)
}

// ShareGIF implements replyassist.GIFClient.
func (c *Client) ShareGIF(ctx context.Context, gif replyassist.GIF) error {
	payload := map[string]any{"gif_id": gif.ID, "url": gif.URL}
	return c.post(ctx, "/reply-guy/gifs/share", payload, nil)
}

// BrandVoiceReady implements replyassist.BrandVoiceClient.
func (c *Client) BrandVoiceReady(ctx context.Context) (bool, error) {
	var resp struct {
		Ready bool `json:"ready"`
	}
	if err := c.get(ctx, "/reply-guy/brand-voice/status", nil, &resp); err != nil {
		return false, err
	}
	return resp.Ready, nil
}
