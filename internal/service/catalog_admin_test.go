package service

import (
	"context"
	"testing"

	"github.com/xiaot623/sustainet/internal/domain"
)

func TestCreateNewsValidates(t *testing.T) {
	svc, _ := newTestService(t, newRunner(), testGameConfig())
	ctx := context.Background()

	tests := []struct {
		name string
		news domain.News
	}{
		{"missing title", domain.News{Content: "c", Veracity: domain.VeracityTrue}},
		{"missing content", domain.News{Title: "t", Veracity: domain.VeracityTrue}},
		{"bad veracity", domain.News{Title: "t", Content: "c", Veracity: "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.news
			err := svc.CreateNews(ctx, &n)
			if got := domain.KindOf(err); got != domain.KindValidation {
				t.Fatalf("CreateNews kind = %v, want validation (err %v)", got, err)
			}
		})
	}

	n := domain.News{Title: "Bridge reopens", Content: "Traffic resumes downtown.", Veracity: domain.VeracityTrue, IsActive: true}
	if err := svc.CreateNews(ctx, &n); err != nil {
		t.Fatalf("CreateNews failed: %v", err)
	}
	if n.NewsID == 0 {
		t.Fatal("expected news id to be assigned")
	}
	dup := domain.News{Title: "Bridge reopens", Content: "Different text.", Veracity: domain.VeracityFalse, IsActive: true}
	if err := svc.CreateNews(ctx, &dup); domain.KindOf(err) != domain.KindBusinessLogic {
		t.Fatalf("CreateNews duplicate kind = %v, want business logic (err %v)", domain.KindOf(err), err)
	}
	if dup.NewsID != 0 {
		t.Fatalf("duplicate reported id %d", dup.NewsID)
	}

	if _, err := svc.RandomNews(ctx); err != nil {
		t.Fatalf("RandomNews failed: %v", err)
	}
}

func TestSaveAndGetAgent(t *testing.T) {
	svc, _ := newTestService(t, newRunner(), testGameConfig())
	ctx := context.Background()

	if err := svc.SaveAgent(ctx, &domain.Agent{Name: "checker"}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("SaveAgent without instruction: got %v", err)
	}

	a := &domain.Agent{Name: "checker", Instruction: "Check {content}"}
	if err := svc.SaveAgent(ctx, a); err != nil {
		t.Fatalf("SaveAgent failed: %v", err)
	}
	got, err := svc.GetAgent(ctx, "checker")
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got.Provider != "litellm" || got.Instruction != "Check {content}" || got.AgentID == "" {
		t.Fatalf("GetAgent = %+v", got)
	}

	if _, err := svc.GetAgent(ctx, "missing"); domain.KindOf(err) != domain.KindResourceNotFound {
		t.Fatalf("GetAgent(missing) = %v, want not found", err)
	}
}
