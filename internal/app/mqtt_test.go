package app

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	"github.com/relabs-tech/drivetrain_computer/internal/control"
	"github.com/relabs-tech/drivetrain_computer/internal/drive"
	"github.com/relabs-tech/drivetrain_computer/internal/odometry"
)

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type published struct {
	topic    string
	retained bool
	payload  []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.msgs = append(f.msgs, published{topic: topic, retained: retained, payload: payload.([]byte)})
	return doneToken{err: f.err}
}

func TestMQTTTickSinkPublishesPoseAndCommand(t *testing.T) {
	pub := &fakePublisher{}
	sink := newMQTTTickSink(pub, config.Default().MQTT)

	tick := control.Tick{
		Elapsed: 1.5,
		Dt:      0.032,
		Command: drive.DriveCommand{Left: 0.25, Right: 0.5},
		Pose:    odometry.Pose2D{X: 1, Y: 2, Heading: 45},
	}
	require.NoError(t, sink.Publish(tick))
	require.Len(t, pub.msgs, 2)

	assert.Equal(t, "drivetrain/pose", pub.msgs[0].topic)
	assert.True(t, pub.msgs[0].retained)
	var pose PoseMessage
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &pose))
	assert.Equal(t, PoseMessage{Elapsed: 1.5, Pose2D: tick.Pose}, pose)
	assert.JSONEq(t, `{"t":1.5,"x":1,"y":2,"heading":45}`, string(pub.msgs[0].payload))

	assert.Equal(t, "drivetrain/command", pub.msgs[1].topic)
	assert.False(t, pub.msgs[1].retained)
	var got control.Tick
	require.NoError(t, json.Unmarshal(pub.msgs[1].payload, &got))
	assert.Equal(t, tick, got)
}

func TestMQTTTickSinkReportsPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("not connected")}
	sink := newMQTTTickSink(pub, config.Default().MQTT)

	err := sink.Publish(control.Tick{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
	assert.Len(t, pub.msgs, 1)
}

func TestPoseMessageLine(t *testing.T) {
	p := PoseMessage{Elapsed: 0.064, Pose2D: odometry.Pose2D{X: 0, Y: 1, Heading: 90}}
	assert.Equal(t, "0.064, Pose = (0.00000, 1.00000, 90.00000)", p.Line())
}
