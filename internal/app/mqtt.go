// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	"github.com/relabs-tech/drivetrain_computer/internal/control"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
	"github.com/relabs-tech/drivetrain_computer/internal/odometry"
)

// PoseMessage is the payload published on the pose topic.
type PoseMessage struct {
	Elapsed float64 `json:"t"`
	odometry.Pose2D
}

// Line renders the message as a pose line.
func (m PoseMessage) Line() string {
	return odometry.FormatPoseLine(m.Elapsed, m.Pose2D)
}

func connectMQTT(broker, clientID string, logger customlog.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect error: %w", token.Error())
	}
	logger.Infof("connected to MQTT broker at %s as %s", broker, clientID)
	return client, nil
}

// subscribePose delivers every decoded pose message to fn.
func subscribePose(client mqtt.Client, topic string, logger customlog.Logger, fn func(PoseMessage)) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p PoseMessage
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			logger.Warnf("pose unmarshal error: %v", err)
			return
		}
		fn(p)
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	logger.Infof("subscribed to MQTT topic %s", topic)
	return nil
}

// publisher is the part of mqtt.Client the tick sink needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type mqttTickSink struct {
	client       publisher
	topicPose    string
	topicCommand string
}

func newMQTTTickSink(client publisher, cfg config.MQTTConfig) control.TickSink {
	return &mqttTickSink{
		client:       client,
		topicPose:    cfg.TopicPose,
		topicCommand: cfg.TopicCommand,
	}
}

// Publish sends the pose (retained, for late subscribers) and the full tick.
func (s *mqttTickSink) Publish(t control.Tick) error {
	payload, err := json.Marshal(PoseMessage{Elapsed: t.Elapsed, Pose2D: t.Pose})
	if err != nil {
		return fmt.Errorf("json marshal error (pose): %w", err)
	}
	if token := s.client.Publish(s.topicPose, 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish error (pose): %w", token.Error())
	}

	payload, err = json.Marshal(t)
	if err != nil {
		return fmt.Errorf("json marshal error (command): %w", err)
	}
	if token := s.client.Publish(s.topicCommand, 0, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish error (command): %w", token.Error())
	}
	return nil
}
