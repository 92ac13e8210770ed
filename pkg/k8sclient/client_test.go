package k8sclient_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valeger/automl/pkg/k8sclient"
)

func TestLabelSelectorQueryString(t *testing.T) {
	theory := []struct {
		name string
		sel  k8sclient.LabelSelector
		want string
	}{
		{"empty selector", k8sclient.LabelSelector{}, ""},
		{"single label", k8sclient.LabelSelector{"app": "automl"}, "app=automl"},
	}

	for _, testcase := range theory {
		t.Run(testcase.name, func(t *testing.T) {
			assert.Equal(t, testcase.want, testcase.sel.QueryString())
		})
	}
}

func TestLabelSelectorQueryStringWithMultipleLabelsContainsEachPair(t *testing.T) {
	sel := k8sclient.LabelSelector{"app": "automl", "workflow": "pipeline"}
	q := sel.QueryString()
	assert.Contains(t, q, "app=automl")
	assert.Contains(t, q, "workflow=pipeline")
}

func TestWatchRejectsUnsupportedResourceBeforeTouchingTheClient(t *testing.T) {
	client := k8sclient.Wrap(nil)
	_, err := client.Watch(context.Background(), "automl", "configmaps", k8sclient.LabelSelector{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "configmaps")
}
