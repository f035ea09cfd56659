package backend

import (
	"github.com/pulsekit/go-studio/components/analytics"
	"github.com/pulsekit/go-studio/components/calendar"
	"github.com/pulsekit/go-studio/components/generate"
	"github.com/pulsekit/go-studio/components/replyassist"
)

// One client covers every page's repository surface.
var (
	_ analytics.MetricSeriesRepository   = (*Client)(nil)
	_ analytics.TrafficSourcesRepository = (*Client)(nil)
	_ analytics.PostsRepository          = (*Client)(nil)
	_ analytics.SyncClient               = (*Client)(nil)
	_ replyassist.ListRepository         = (*Client)(nil)
	_ replyassist.ReplyGenerator         = (*Client)(nil)
	_ replyassist.GIFClient              = (*Client)(nil)
	_ replyassist.BrandVoiceClient       = (*Client)(nil)
	_ calendar.EventRepository           = (*Client)(nil)
	_ generate.Generator                 = (*Client)(nil)
)
