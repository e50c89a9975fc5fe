package redis

import "github.com/redis/go-redis/v9"

// All room scripts take the same arguments:
// ARGV[1] version, ARGV[2] player2, ARGV[3] snapshot JSON, ARGV[4] ttl in ms.
// They return 1 on write, 0 when the condition fails and -1 when the room
// does not exist.

var createRoomScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'player2', ARGV[2], 'data', ARGV[3])
if tonumber(ARGV[4]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return 1
`)

var claimSeatScript = redis.NewScript(`
local seat = redis.call('HGET', KEYS[1], 'player2')
if not seat then
  return -1
end
if seat ~= '' then
  return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'player2', ARGV[2], 'data', ARGV[3])
if tonumber(ARGV[4]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return 1
`)

// ARGV[5] is the expected version
var compareAndSwapScript = redis.NewScript(`
local version = redis.call('HGET', KEYS[1], 'version')
if not version then
  return -1
end
if version ~= ARGV[5] then
  return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'player2', ARGV[2], 'data', ARGV[3])
if tonumber(ARGV[4]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return 1
`)
