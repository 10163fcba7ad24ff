package services

import (
  "math/rand"
  "time"
)

const maxBackoff = 10 * time.Second

func jitterSleep(base time.Duration) time.Duration {
  // +/- 20%
  if base <= 0 {
    return 0
  }
  j := 0.2
  delta := base.Seconds() * j
  low := base.Seconds() - delta
  high := base.Seconds() + delta
  if low < 0 {
    low = 0
  }
  v := low + rand.Float64()*(high-low)
  return time.Duration(v * float64(time.Second))
}

func capBackoff(d time.Duration) time.Duration {
  if d > maxBackoff {
    return maxBackoff
  }
  return d
}
