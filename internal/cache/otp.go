package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTP 存取。验证码按手机号存放，带过期时间、尝试次数上限与发送间隔限制。

func otpKey(phone string) string {
	return fmt.Sprintf("otp:code:%s", phone)
}

func otpAttemptsKey(phone string) string {
	return fmt.Sprintf("otp:attempts:%s", phone)
}

func otpIntervalKey(phone string) string {
	return fmt.Sprintf("otp:interval:%s", phone)
}

// SetOTP 写入验证码并重置尝试计数
func SetOTP(ctx context.Context, phone, code string, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	if err := redisClient.Set(ctx, buildKey(otpKey(phone)), code, ttl).Err(); err != nil {
		return err
	}
	return redisClient.Del(ctx, buildKey(otpAttemptsKey(phone))).Err()
}

// GetOTP 读取验证码，未找到返回空串
func GetOTP(ctx context.Context, phone string) (string, error) {
	if !Enabled() {
		return "", nil
	}
	val, err := redisClient.Get(ctx, buildKey(otpKey(phone))).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// DelOTP 删除验证码与尝试计数
func DelOTP(ctx context.Context, phone string) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Del(ctx, buildKey(otpKey(phone)), buildKey(otpAttemptsKey(phone))).Err()
}

// IncrOTPAttempts 累加校验失败次数，返回累加后的值
func IncrOTPAttempts(ctx context.Context, phone string, ttl time.Duration) (int64, error) {
	if !Enabled() {
		return 0, nil
	}
	key := buildKey(otpAttemptsKey(phone))
	count, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := redisClient.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// MarkOTPSent 记录发送时刻；发送间隔内返回 false
func MarkOTPSent(ctx context.Context, phone string, interval time.Duration) (bool, error) {
	if !Enabled() {
		return true, nil
	}
	ok, err := redisClient.SetNX(ctx, buildKey(otpIntervalKey(phone)), "1", interval).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
