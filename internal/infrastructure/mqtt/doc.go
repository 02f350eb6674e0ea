// Package mqtt connects the gateway to an MQTT broker.
//
// It wraps paho.mqtt.golang with the gateway's topic layout: commands arrive
// on <base>/<device>[/<entity>...], results go to <base>/response and a
// retained online/offline status lives on <base>/status, backed by a last
// will so subscribers notice a crash.
//
//	client, err := mqtt.Connect(cfg.MQTT, mqtt.Topics{Base: cfg.Gateway.TopicBase})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(client.Topics().Commands(), 1, handle)
//
// Subscriptions are tracked and restored after a reconnect. Handler panics
// are recovered and logged through the Logger set with SetLogger.
package mqtt
