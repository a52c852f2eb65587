package revalidate

import (
	"testing"

	"github.com/futureworld/futureworld.site/internal/content"
)

func TestTargetsForCaseStudy(t *testing.T) {
	t.Parallel()

	targets := TargetsFor(content.TypeCaseStudy, "acme")
	if len(targets) != 1 {
		t.Fatalf("len(targets) = %d, want 1", len(targets))
	}
	if targets[0].Tag != "caseStudy" {
		t.Fatalf("tag = %q, want caseStudy", targets[0].Tag)
	}
	if targets[0].Path != "/case-study/acme" {
		t.Fatalf("path = %q, want /case-study/acme", targets[0].Path)
	}
}

func TestTargetsForUnrecognizedTypeFallsBackToCatchAll(t *testing.T) {
	t.Parallel()

	targets := TargetsFor("navigationMenu", "")
	if len(targets) != 1 {
		t.Fatalf("len(targets) = %d, want 1", len(targets))
	}
	if targets[0].Tag != CatchAllTag {
		t.Fatalf("tag = %q, want %q", targets[0].Tag, CatchAllTag)
	}
	if targets[0].Path != "/" {
		t.Fatalf("path = %q, want /", targets[0].Path)
	}
}

func TestTargetsForIdentifierTypeWithoutSlugKeepsTagOnly(t *testing.T) {
	t.Parallel()

	targets := TargetsFor(content.TypeCaseStudy, "")
	if len(targets) != 1 {
		t.Fatalf("len(targets) = %d, want 1", len(targets))
	}
	if targets[0].Tag != "caseStudy" || targets[0].Path != "" {
		t.Fatalf("targets[0] = %+v, want tag-only", targets[0])
	}
}

func TestTargetsForMindbulletIncludesListing(t *testing.T) {
	t.Parallel()

	targets := TargetsFor(content.TypeMindbullet, "robot-wars")
	if len(targets) != 2 {
		t.Fatalf("len(targets) = %d, want 2", len(targets))
	}
	if targets[0].Tag != "mindbullet" || targets[0].Path != "/mindbullets" {
		t.Fatalf("targets[0] = %+v", targets[0])
	}
	if targets[1].Path != "/mindbullet/robot-wars" {
		t.Fatalf("targets[1] = %+v", targets[1])
	}
}

func TestTargetsForHome(t *testing.T) {
	t.Parallel()

	targets := TargetsFor(content.TypeHome, "")
	if len(targets) != 1 || targets[0].Path != "/" || targets[0].Tag != "homePage" {
		t.Fatalf("targets = %+v", targets)
	}
}
