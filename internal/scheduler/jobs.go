package scheduler

import "context"

type Reindexer interface {
	Reindex(ctx context.Context) error
}

// ReindexJob pushes every community to the search engine again so that
// documents missed by a failed async index call eventually converge.
type ReindexJob struct {
	reindexer Reindexer
	schedule  string
}

func NewReindexJob(reindexer Reindexer, schedule string) *ReindexJob {
	return &ReindexJob{reindexer: reindexer, schedule: schedule}
}

func (j *ReindexJob) Name() string { return "community-search-reindex" }

func (j *ReindexJob) Schedule() string { return j.schedule }

func (j *ReindexJob) Run(ctx context.Context) error {
	return j.reindexer.Reindex(ctx)
}
