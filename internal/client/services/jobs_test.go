package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/jobportal/internal/client/client"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_BrowseDefaultsPaging(t *testing.T) {
	fc := &fakeClient{ListPublicJobsRet: &models.JobPage{Total: 0}}
	s := NewJobService(fc, &fakeSession{})

	_, err := s.Browse(context.Background(), models.JobFilter{Location: "Pokhara"})
	require.NoError(t, err)
	assert.Equal(t, 1, fc.LastFilter.Page)
	assert.Equal(t, DefaultPageSize, fc.LastFilter.PageSize)
	assert.Equal(t, "Pokhara", fc.LastFilter.Location)

	_, err = s.Browse(context.Background(), models.JobFilter{Page: 3, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 3, fc.LastFilter.Page)
	assert.Equal(t, 50, fc.LastFilter.PageSize)
}

func TestJobService_FeaturedNeedsPremium(t *testing.T) {
	standard := &models.User{ID: "u1", Role: models.RoleBoth, Plan: ptr(models.PlanStandard)}
	premium := &models.User{ID: "u1", Role: models.RoleBoth, Plan: ptr(models.PlanPremium)}

	fc := &fakeClient{JobRet: &models.Job{ID: "j1"}}
	sess := &fakeSession{user: standard}
	s := NewJobService(fc, sess)

	in := models.JobInput{Title: ptr("Go developer"), IsFeatured: ptr(true)}

	_, err := s.Post(context.Background(), in)
	require.ErrorIs(t, err, ErrPremiumRequired)
	_, err = s.Edit(context.Background(), "j1", in)
	require.ErrorIs(t, err, ErrPremiumRequired)
	assert.Empty(t, fc.Calls)

	// not featured is fine on standard
	job, err := s.Post(context.Background(), models.JobInput{Title: ptr("Go developer"), IsFeatured: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "j1", job.ID)

	sess.user = premium
	_, err = s.Post(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Go developer", *fc.LastJobInput.Title)
}

func TestJobService_PassThrough(t *testing.T) {
	fc := &fakeClient{JobRet: &models.Job{ID: "j1", Status: models.JobStatusClosed}, MyJobsRet: []models.Job{{ID: "j1"}, {ID: "j2"}}}
	s := NewJobService(fc, &fakeSession{})
	ctx := context.Background()

	job, err := s.SetStatus(ctx, "j1", models.JobStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, job.Status)
	assert.Equal(t, models.JobStatusClosed, fc.LastStatus)

	jobs, err := s.Mine(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	_, err = s.View(ctx, "j9")
	require.NoError(t, err)
	assert.Equal(t, "j9", fc.LastJobID)

	_, err = s.Owned(ctx, "j8")
	require.NoError(t, err)
	assert.Equal(t, []string{"UpdateJobStatus", "MyJobs", "GetPublicJob", "GetJob"}, fc.Calls)

	fc.DeleteJobErr = client.ErrForbidden
	require.ErrorIs(t, s.Delete(ctx, "j1"), client.ErrForbidden)

	fc.JobErr = client.ErrNotFound
	_, err = s.View(ctx, "missing")
	require.ErrorIs(t, err, client.ErrNotFound)
}
